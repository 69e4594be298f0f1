package report

import (
	"bytes"
	"fmt"
	"html"
	"io"
	"time"

	"github.com/bezalel6/computer-chess/pkg/challenge"
)

// HTMLReporter generates HTML reports.
type HTMLReporter struct{}

// NewHTMLReporter creates a new HTML reporter.
func NewHTMLReporter() *HTMLReporter {
	return &HTMLReporter{}
}

// GenerateReport creates an HTML report for a single game.
func (r *HTMLReporter) GenerateReport(
	game *GameReport,
) ([]byte, error) {
	var buf bytes.Buffer
	if err := r.WriteReport(&buf, game); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteReport writes an HTML report to the specified writer.
func (r *HTMLReporter) WriteReport(
	w io.Writer,
	game *GameReport,
) error {
	r.writeHeader(w, "Game Report: "+game.GameID)

	fmt.Fprintf(w, "<h1>Game Report: %s</h1>\n", html.EscapeString(game.GameID))
	fmt.Fprintf(w, "<p><strong>Player:</strong> %s</p>\n", html.EscapeString(game.Player))
	fmt.Fprintf(w, "<p><strong>Ended:</strong> %s</p>\n", game.EndedAt.Format(time.RFC3339))

	r.writeResultTable(w, game)
	r.writeBonusesSection(w, game)
	r.writeTypesSection(w, game)
	r.writeRecordsSection(w, game)

	r.writeFooter(w)
	return nil
}

func (r *HTMLReporter) writeResultTable(w io.Writer, game *GameReport) {
	s := game.Settlement
	cls := "status-failed"
	if game.Outcome.Win {
		cls = "status-passed"
	}

	fmt.Fprintln(w, "<h2>Result</h2>")
	fmt.Fprintln(w, "<table>")
	fmt.Fprintln(w, "<tr><th>Metric</th><th>Value</th></tr>")
	fmt.Fprintf(w, "<tr><td>Outcome</td><td class=\"%s\"><strong>%s</strong></td></tr>\n",
		cls, html.EscapeString(outcomeLabel(game)))
	fmt.Fprintf(w, "<tr><td>Points</td><td>%d</td></tr>\n", s.Summary.Points)
	fmt.Fprintf(w, "<tr><td>Challenges</td><td>%d/%d (%.0f%%)</td></tr>\n",
		s.Summary.Completed, s.Summary.Presented, s.Summary.CompletionRate*100)
	fmt.Fprintf(w, "<tr><td>Longest Streak</td><td>%d</td></tr>\n", s.Summary.LongestStreak)
	fmt.Fprintf(w, "<tr><td>Best Combo</td><td>%d</td></tr>\n", s.Summary.BestCombo)
	fmt.Fprintf(w, "<tr><td>XP Earned</td><td>%d</td></tr>\n", s.XPEarned)
	fmt.Fprintf(w, "<tr><td>Rank</td><td>%s</td></tr>\n", html.EscapeString(rankLabel(game)))
	fmt.Fprintf(w, "<tr><td>Duration</td><td>%v</td></tr>\n", game.Duration())
	fmt.Fprintln(w, "</table>")
}

func (r *HTMLReporter) writeBonusesSection(w io.Writer, game *GameReport) {
	b := game.Settlement.Bonuses
	if b.Flat() == 0 {
		return
	}

	fmt.Fprintln(w, "<h2>Bonuses</h2>")
	fmt.Fprintln(w, "<table>")
	fmt.Fprintln(w, "<tr><th>Bonus</th><th>XP</th></tr>")
	for _, row := range []struct {
		name  string
		value int
	}{
		{"Win", b.Win},
		{"Checkmate", b.Checkmate},
		{"Completion", b.Completion},
		{"Perfect", b.Perfect},
		{"Speed", b.Speed},
		{"Domination", b.Domination},
	} {
		if row.value == 0 {
			continue
		}
		fmt.Fprintf(w, "<tr><td>%s</td><td>%d</td></tr>\n", row.name, row.value)
	}
	fmt.Fprintf(w, "<tr><td>Opponent Multiplier</td><td>x%.2f</td></tr>\n", b.Multiplier)
	fmt.Fprintln(w, "</table>")
}

func (r *HTMLReporter) writeTypesSection(w io.Writer, game *GameReport) {
	stats := game.ByType()
	if len(stats) == 0 {
		return
	}

	fmt.Fprintln(w, "<h2>Challenges</h2>")
	fmt.Fprintln(w, "<table>")
	fmt.Fprintln(w, "<tr><th>Type</th><th>Completed</th><th>Points</th></tr>")
	for _, t := range stats {
		fmt.Fprintf(w, "<tr><td>%s</td><td>%d/%d</td><td>%d</td></tr>\n",
			html.EscapeString(string(t.Type)), t.Completed, t.Presented, t.Points)
	}
	fmt.Fprintln(w, "</table>")
}

func (r *HTMLReporter) writeRecordsSection(w io.Writer, game *GameReport) {
	if len(game.Records) == 0 {
		return
	}

	fmt.Fprintln(w, "<h2>Resolutions</h2>")
	fmt.Fprintln(w, "<table>")
	fmt.Fprintln(w, "<tr><th>Move #</th><th>Type</th><th>Difficulty</th>"+
		"<th>Status</th><th>Reward</th><th>Move</th></tr>")
	for _, rec := range game.Records {
		cls := "status-failed"
		if rec.Status == challenge.StatusSuccess {
			cls = "status-passed"
		}
		move := rec.Move
		if move == "" {
			move = "-"
		}
		fmt.Fprintf(w, "<tr><td>%d</td><td>%s</td><td>%s</td>"+
			"<td class=\"%s\">%s</td><td>%d</td><td><code>%s</code></td></tr>\n",
			rec.MoveNumber,
			html.EscapeString(string(rec.Type)),
			html.EscapeString(string(rec.Difficulty)),
			cls, html.EscapeString(string(rec.Status)),
			rec.Reward, html.EscapeString(move))
	}
	fmt.Fprintln(w, "</table>")
}

// GenerateMasterSummary creates an HTML summary of several games.
func (r *HTMLReporter) GenerateMasterSummary(
	games []*GameReport,
) ([]byte, error) {
	var buf bytes.Buffer
	summary := BuildMasterSummary(games)

	r.writeHeader(&buf, "Chess Challenges - Master Summary")
	fmt.Fprintln(&buf, "<h1>Chess Challenges - Master Summary</h1>")
	fmt.Fprintf(&buf, "<p><strong>Generated:</strong> %s</p>\n",
		summary.GeneratedAt.Format(time.RFC3339))

	fmt.Fprintln(&buf, "<h2>Games</h2>")
	fmt.Fprintln(&buf, "<table>")
	fmt.Fprintln(&buf, "<tr><th>Game</th><th>Player</th><th>Result</th>"+
		"<th>Challenges</th><th>Points</th><th>XP</th></tr>")
	for _, g := range summary.Games {
		cls, result := "status-failed", "LOSS/DRAW"
		if g.Win {
			cls, result = "status-passed", "WIN"
		}
		fmt.Fprintf(&buf, "<tr><td>%s</td><td>%s</td><td class=\"%s\">%s</td>"+
			"<td>%d/%d</td><td>%d</td><td>%d</td></tr>\n",
			html.EscapeString(g.GameID), html.EscapeString(g.Player),
			cls, result, g.Completed, g.Presented, g.Points, g.XPEarned)
	}
	fmt.Fprintln(&buf, "</table>")

	fmt.Fprintln(&buf, "<h2>Statistics</h2>")
	fmt.Fprintln(&buf, "<table>")
	fmt.Fprintln(&buf, "<tr><th>Metric</th><th>Value</th></tr>")
	fmt.Fprintf(&buf, "<tr><td>Games</td><td>%d</td></tr>\n", summary.TotalGames)
	fmt.Fprintf(&buf, "<tr><td>Wins</td><td>%d</td></tr>\n", summary.Wins)
	fmt.Fprintf(&buf, "<tr><td>Completion Rate</td><td>%.0f%%</td></tr>\n",
		summary.CompletionRate*100)
	fmt.Fprintf(&buf, "<tr><td>Points</td><td>%d</td></tr>\n", summary.TotalPoints)
	fmt.Fprintf(&buf, "<tr><td>XP</td><td>%d</td></tr>\n", summary.TotalXP)
	fmt.Fprintln(&buf, "</table>")

	r.writeFooter(&buf)
	return buf.Bytes(), nil
}

func (r *HTMLReporter) writeHeader(w io.Writer, title string) {
	fmt.Fprintf(w, `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<title>%s</title>
<style>
body {
  font-family: -apple-system, BlinkMacSystemFont,
    "Segoe UI", Roboto, sans-serif;
  max-width: 960px;
  margin: 0 auto;
  padding: 20px;
  color: #333;
  background: #f9f9f9;
}
h1 { color: #2c3e50; border-bottom: 2px solid #8e5b2c; padding-bottom: 10px; }
h2 { color: #2c3e50; margin-top: 30px; }
table {
  border-collapse: collapse;
  width: 100%%;
  margin: 10px 0;
  background: #fff;
}
th, td {
  border: 1px solid #ddd;
  padding: 8px 12px;
  text-align: left;
}
th { background: #8e5b2c; color: #fff; }
tr:nth-child(even) { background: #f2f2f2; }
.status-passed { color: #27ae60; font-weight: bold; }
.status-failed { color: #e74c3c; font-weight: bold; }
code {
  background: #ecf0f1;
  padding: 2px 6px;
  border-radius: 3px;
}
footer {
  margin-top: 40px;
  padding-top: 10px;
  border-top: 1px solid #ddd;
  color: #7f8c8d;
  font-size: 0.9em;
}
</style>
</head>
<body>
`, html.EscapeString(title))
}

func (r *HTMLReporter) writeFooter(w io.Writer) {
	fmt.Fprintln(w, "<footer>")
	fmt.Fprintln(w, "<p>Generated by computer-chess</p>")
	fmt.Fprintln(w, "</footer>")
	fmt.Fprintln(w, "</body>")
	fmt.Fprintln(w, "</html>")
}
