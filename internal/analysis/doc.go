// Package analysis summarizes recorded particle runs.
//
//   - [Summarize]: mean, spread and extremes of a series (gonum stat)
//   - [Speeds], [Displacements], [Corrections]: series extractors over frames
//   - [TracePath]: x/y trajectory of one particle
//   - [PathToASCII]: terminal plot of a trajectory
//
// # Example
//
//	speeds := analysis.Speeds(result.Frames, 0)
//	s := analysis.Summarize(speeds)
//	fmt.Printf("mean %.3f sd %.3f\n", s.Mean, s.StdDev)
package analysis
