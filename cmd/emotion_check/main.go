package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"tara/internal/domain"
	"tara/internal/emotion"
)

var (
	inputPath string
	asJSON    bool
	radius    float64
)

var rootCmd = &cobra.Command{
	Use:   "emotion_check",
	Short: "Score an exported {moods, journals} file offline",
	Long: `Reads a JSON export with "moods" and "journals" arrays and prints the raw
emotion totals and the normalized distribution, the same numbers the insights API serves.`,
	Args: cobra.NoArgs,
	RunE: runEmotionCheck,
}

func init() {
	rootCmd.Flags().StringVarP(&inputPath, "file", "f", "-", "path to the JSON export (- for stdin)")
	rootCmd.Flags().BoolVar(&asJSON, "json", false, "print the result as JSON")
	rootCmd.Flags().Float64Var(&radius, "radius", 0, "also print flower radar points for this radius")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

type report struct {
	Raw          map[string]int       `json:"raw"`
	Total        int                  `json:"total"`
	Distribution map[string]int       `json:"distribution"`
	Dominant     string               `json:"dominant,omitempty"`
	Radar        []emotion.RadarPoint `json:"radar,omitempty"`
	Skipped      int                  `json:"skipped,omitempty"`
}

func runEmotionCheck(cmd *cobra.Command, _ []string) error {
	set, skipped, err := readRecords(cmd.InOrStdin(), inputPath)
	if err != nil {
		return err
	}
	rep := buildReport(set, radius)
	rep.Skipped = skipped
	if skipped > 0 {
		fmt.Fprintf(cmd.ErrOrStderr(), "skipped %d malformed records\n", skipped)
	}

	out := cmd.OutOrStdout()
	if asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(rep)
	}

	fmt.Fprintf(out, "moods=%d journals=%d total=%d\n", len(set.Moods), len(set.Journals), rep.Total)
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "EMOTION\tRAW\tPERCENT")
	for _, label := range emotion.Labels() {
		fmt.Fprintf(w, "%s\t%d\t%d\n", label, rep.Raw[label], rep.Distribution[label])
	}
	if err := w.Flush(); err != nil {
		return err
	}
	if rep.Dominant != "" {
		fmt.Fprintf(out, "dominant: %s\n", rep.Dominant)
	}
	for _, p := range rep.Radar {
		fmt.Fprintf(out, "%-13s x=%8.2f y=%8.2f\n", p.Label, p.X, p.Y)
	}
	return nil
}

// exportFile difiere el decode de cada registro para saltear los rotos sin perder el resto.
type exportFile struct {
	Moods    []json.RawMessage `json:"moods"`
	Journals []json.RawMessage `json:"journals"`
}

// Las fechas llegan como ISO-8601 en cualquier variante; se parsean aparte.
type exportMood struct {
	domain.MoodEntry
	Timestamp string `json:"timestamp"`
}

type exportJournal struct {
	domain.JournalEntry
	CreatedAt string `json:"createdAt"`
	UpdatedAt string `json:"updatedAt"`
}

var exportTimeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05Z0700",
	time.DateTime,
	time.DateOnly,
}

// parseExportTime devuelve el instante cero si ningun layout aplica; el scoring no usa fechas.
func parseExportTime(raw string) time.Time {
	raw = strings.TrimSpace(raw)
	for _, layout := range exportTimeLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.UTC()
		}
	}
	return time.Time{}
}

func isNullRecord(raw json.RawMessage) bool {
	return len(raw) == 0 || string(raw) == "null"
}

// readRecords devuelve el set y cuantos registros se descartaron por mal formados.
func readRecords(stdin io.Reader, path string) (domain.RecordSet, int, error) {
	var r io.Reader = stdin
	if path != "" && path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return domain.RecordSet{}, 0, fmt.Errorf("open records: %w", err)
		}
		defer f.Close()
		r = f
	}
	var file exportFile
	if err := json.NewDecoder(r).Decode(&file); err != nil {
		return domain.RecordSet{}, 0, fmt.Errorf("decode records: %w", err)
	}

	var set domain.RecordSet
	skipped := 0
	for _, raw := range file.Moods {
		var m exportMood
		if isNullRecord(raw) || json.Unmarshal(raw, &m) != nil {
			skipped++
			continue
		}
		m.MoodEntry.CreatedAt = parseExportTime(m.Timestamp)
		set.Moods = append(set.Moods, m.MoodEntry)
	}
	for _, raw := range file.Journals {
		var j exportJournal
		if isNullRecord(raw) || json.Unmarshal(raw, &j) != nil {
			skipped++
			continue
		}
		j.JournalEntry.CreatedAt = parseExportTime(j.CreatedAt)
		j.JournalEntry.UpdatedAt = parseExportTime(j.UpdatedAt)
		set.Journals = append(set.Journals, j.JournalEntry)
	}
	return set, skipped, nil
}

func buildReport(set domain.RecordSet, radius float64) report {
	raw := emotion.Default().Accumulate(set.Moods, set.Journals)
	dist := emotion.Normalize(raw)
	rep := report{
		Raw:          raw.AsMap(),
		Total:        raw.Total(),
		Distribution: dist.AsMap(),
	}
	if d, ok := raw.Dominant(); ok {
		rep.Dominant = string(d)
	}
	if radius > 0 {
		rep.Radar = emotion.Flower(dist, radius)
	}
	return rep
}
