// Package export writes optimizer rankings for spreadsheets and dashboards.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/kilianp07/rescuesim/core/optimizer"
)

// Formats supported by Write.
const (
	FormatCSV  = "csv"
	FormatJSON = "json"
)

// Header is the CSV column order.
var Header = []string{
	"rank", "index", "team_count", "distribution",
	"ratio_nearest", "ratio_largest", "ratio_hybrid",
	"w_distance", "w_victims", "w_urgency",
	"average_score", "stability", "mean_success_rate", "mean_completion_time", "trials",
}

// Write encodes rep in format.
func Write(w io.Writer, format string, rep optimizer.Report) error {
	switch strings.ToLower(format) {
	case FormatCSV, "":
		return WriteCSV(w, rep.Ranked)
	case FormatJSON:
		return WriteJSON(w, rep)
	default:
		return fmt.Errorf("unsupported export format %q", format)
	}
}

// WriteJSON writes the full report to w.
func WriteJSON(w io.Writer, rep optimizer.Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(rep)
}

// WriteCSV writes one row per ranked configuration.
func WriteCSV(w io.Writer, ranked []optimizer.Ranked) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return err
	}
	for _, r := range ranked {
		c := r.Configuration
		rec := []string{
			strconv.Itoa(r.Rank),
			strconv.Itoa(r.Index),
			strconv.Itoa(c.TeamCount),
			c.Distribution.String(),
			ftoa(c.StrategyRatio[0]),
			ftoa(c.StrategyRatio[1]),
			ftoa(c.StrategyRatio[2]),
			ftoa(c.HybridWeights.Distance),
			ftoa(c.HybridWeights.Victims),
			ftoa(c.HybridWeights.Urgency),
			ftoa(r.AverageScore),
			ftoa(r.Stability),
			ftoa(r.MeanSuccessRate),
			ftoa(r.MeanCompletionTime),
			strconv.Itoa(r.Trials),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func ftoa(f float64) string { return strconv.FormatFloat(f, 'f', 4, 64) }
