package emotion

import "math"

// RadarPoint es un vertice del radar/flor en coordenadas relativas al centro.
type RadarPoint struct {
	Label  string  `json:"label"`
	Value  int     `json:"value"`
	Angle  float64 `json:"angle"`
	Radius float64 `json:"radius"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
}

// RadarLayout reparte labels cada 2π/n empezando arriba. El radio es
// proporcional al porcentaje sobre maxRadius.
func RadarLayout(labels []string, values map[string]int, maxRadius float64) []RadarPoint {
	n := len(labels)
	if n == 0 {
		return nil
	}
	if maxRadius < 0 || math.IsNaN(maxRadius) || math.IsInf(maxRadius, 0) {
		maxRadius = 0
	}
	step := 2 * math.Pi / float64(n)
	points := make([]RadarPoint, n)
	for i, label := range labels {
		v := values[label]
		pct := math.Min(math.Max(float64(v), 0), 100)
		angle := -math.Pi/2 + float64(i)*step
		r := pct / 100 * maxRadius
		points[i] = RadarPoint{
			Label:  label,
			Value:  v,
			Angle:  angle,
			Radius: r,
			X:      r * math.Cos(angle),
			Y:      r * math.Sin(angle),
		}
	}
	return points
}

// Flower es el radar de las ocho emociones en orden canonico.
func Flower(dist Scores, maxRadius float64) []RadarPoint {
	return RadarLayout(Labels(), dist.AsMap(), maxRadius)
}
