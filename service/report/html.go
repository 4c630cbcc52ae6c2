/*
 * @module service/report/html
 * @description HTML report generator rendering the full analysis into a
 *              single self-contained document
 * @architecture Service layer - output artifact generation
 * @stateFlow Analysis report -> template render -> timestamped file
 * @rules Rendered output must not depend on external assets
 * @dependencies html/template
 * @refs service/analysis/analyzer.go, service/report/xlsx.go
 */

package report

import (
	"fmt"
	"html/template"
	"os"
	"path/filepath"

	"gus-analytics-service/service/analysis"
)

const reportTemplate = `<!DOCTYPE html>
<html lang="pl">
<head>
<meta charset="utf-8">
<title>Koszty utrzymania zasobów mieszkaniowych</title>
<style>
body { font-family: Arial, sans-serif; margin: 2em; color: #222; }
h1 { border-bottom: 2px solid #4472C4; padding-bottom: 0.3em; }
h2 { color: #4472C4; margin-top: 1.5em; }
table { border-collapse: collapse; margin: 1em 0; }
th, td { border: 1px solid #bbb; padding: 6px 12px; text-align: left; }
th { background: #4472C4; color: #fff; }
tr:nth-child(even) { background: #f4f6fb; }
.insight { background: #eef3fc; border-left: 4px solid #4472C4; padding: 0.6em 1em; margin: 0.5em 0; }
.anomaly { color: #b03030; }
</style>
</head>
<body>
<h1>Koszty utrzymania zasobów mieszkaniowych</h1>
<p>Wygenerowano: {{.GeneratedAt.Format "2006-01-02 15:04:05"}}</p>

<h2>Podsumowanie</h2>
<table>
<tr><th>Metryka</th><th>Wartość</th></tr>
<tr><td>Liczba faktów</td><td>{{.Summary.Facts}}</td></tr>
<tr><td>Liczba jednostek</td><td>{{.Summary.Units}}</td></tr>
<tr><td>Liczba lat</td><td>{{.Summary.Years}}</td></tr>
<tr><td>Wartość minimalna</td><td>{{printf "%.2f" .Summary.MinValue}}</td></tr>
<tr><td>Wartość maksymalna</td><td>{{printf "%.2f" .Summary.MaxValue}}</td></tr>
<tr><td>Wartość średnia</td><td>{{printf "%.2f" .Summary.AvgValue}}</td></tr>
</table>

{{if .Insights}}
<h2>Wnioski</h2>
{{range .Insights}}<div class="insight">{{.}}</div>
{{end}}
{{end}}

{{if .Trends}}
<h2>Trendy roczne</h2>
<table>
<tr><th>Rok</th><th>Średnia</th><th>Minimum</th><th>Maksimum</th><th>Obserwacje</th></tr>
{{range .Trends}}<tr><td>{{.Year}}</td><td>{{printf "%.2f" .AvgValue}}</td><td>{{printf "%.2f" .MinValue}}</td><td>{{printf "%.2f" .MaxValue}}</td><td>{{.Facts}}</td></tr>
{{end}}
</table>
{{end}}

{{if .Ranking}}
<h2>Ranking województw ({{.Ranking.Year}})</h2>
<table>
<tr><th>Pozycja</th><th>Kod</th><th>Województwo</th><th>Średni koszt</th></tr>
{{range $i, $r := .Ranking.Regions}}<tr><td>{{add $i 1}}</td><td>{{$r.UnitCode}}</td><td>{{$r.UnitName}}</td><td>{{printf "%.2f" $r.AvgValue}}</td></tr>
{{end}}
</table>
{{end}}

{{if .Structure}}
<h2>Struktura kosztów ({{.Structure.Year}})</h2>
<table>
<tr><th>Kategoria</th><th>Suma</th><th>Udział %</th></tr>
{{range .Structure.Shares}}<tr><td>{{.Category}}</td><td>{{printf "%.2f" .Total}}</td><td>{{printf "%.2f" .Share}}</td></tr>
{{end}}
</table>
{{end}}

{{if .Dynamics}}
<h2>Dynamika rok do roku</h2>
<table>
<tr><th>Od</th><th>Do</th><th>Zmiana %</th></tr>
{{range .Dynamics}}<tr><td>{{.FromYear}}</td><td>{{.ToYear}}</td><td>{{printf "%.2f" .ChangePct}}</td></tr>
{{end}}
</table>
{{end}}

{{if .Anomalies}}
<h2 class="anomaly">Anomalie</h2>
<table>
<tr><th>Kod</th><th>Jednostka</th><th>Rodzaj</th><th>Wartość</th><th>Odniesienie</th><th>Opis</th></tr>
{{range .Anomalies}}<tr><td>{{.UnitCode}}</td><td>{{.UnitName}}</td><td>{{.Kind}}</td><td>{{printf "%.2f" .Value}}</td><td>{{printf "%.2f" .Reference}}</td><td>{{.Detail}}</td></tr>
{{end}}
</table>
{{end}}

</body>
</html>
`

// HTMLGenerator renders analysis reports to standalone HTML files.
type HTMLGenerator struct {
	outputDir string
	tmpl      *template.Template
}

// NewHTMLGenerator parses the report template and prepares the output
// directory.
func NewHTMLGenerator(outputDir string) (*HTMLGenerator, error) {
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating output dir: %w", err)
	}
	tmpl, err := template.New("report").Funcs(template.FuncMap{
		"add": func(a, b int) int { return a + b },
	}).Parse(reportTemplate)
	if err != nil {
		return nil, fmt.Errorf("parsing report template: %w", err)
	}
	return &HTMLGenerator{outputDir: outputDir, tmpl: tmpl}, nil
}

// Generate renders one report and returns the written file path.
func (g *HTMLGenerator) Generate(report *analysis.Report) (string, error) {
	path := filepath.Join(g.outputDir,
		fmt.Sprintf("raport_%s.html", report.GeneratedAt.Format("20060102_150405")))

	file, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("creating report file: %w", err)
	}
	defer file.Close()

	if err := g.tmpl.Execute(file, report); err != nil {
		return "", fmt.Errorf("rendering report: %w", err)
	}
	return path, nil
}
