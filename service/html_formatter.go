package service

import (
	"html/template"
	"io"
	"strings"

	"github.com/ludo-technologies/rotron/domain"
)

// HTMLData represents the data for HTML template
type HTMLData struct {
	Report      *domain.AnalysisReport
	Documents   []HTMLDocument
	Project     []domain.Diagnostic
	HasPackages bool
}

// HTMLDocument is one document section of the HTML report
type HTMLDocument struct {
	Name        string
	Diagnostics []domain.Diagnostic
}

var htmlReport = template.Must(template.New("analyze").Funcs(template.FuncMap{
	"statusClass": func(s domain.PackageStatus) string {
		switch s {
		case domain.PackageUpToDate:
			return "status-ok"
		case domain.PackageOutdated:
			return "status-outdated"
		default:
			return "status-unknown"
		}
	},
	"firstLine": func(s string) string {
		line, _, _ := strings.Cut(s, "\n")
		return line
	},
}).Parse(htmlTemplate))

// writeHTML renders the report as a single self-contained page
func (f *OutputFormatter) writeHTML(report *domain.AnalysisReport, writer io.Writer) error {
	names, byDoc, project := domain.DiagnosticsByDocument(report.Diagnostics)

	data := HTMLData{
		Report:      report,
		Project:     project,
		HasPackages: len(report.Packages) > 0,
	}
	for _, name := range names {
		data.Documents = append(data.Documents, HTMLDocument{Name: name, Diagnostics: byDoc[name]})
	}

	return htmlReport.Execute(writer, data)
}

const htmlTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>rotron Analysis Report</title>
    <style>
        * { margin: 0; padding: 0; box-sizing: border-box; }
        body {
            font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, 'Helvetica Neue', Arial, sans-serif;
            line-height: 1.6;
            color: #333;
            background: linear-gradient(135deg, #667eea 0%, #764ba2 100%);
            min-height: 100vh;
        }
        .container { max-width: 1200px; margin: 0 auto; padding: 20px; }
        .header {
            background: white;
            border-radius: 10px;
            padding: 30px;
            margin-bottom: 20px;
            box-shadow: 0 10px 30px rgba(0,0,0,0.1);
        }
        .header h1 { color: #667eea; margin-bottom: 10px; }
        .header .subtitle { color: #666; font-size: 14px; }

        .tabs {
            background: white;
            border-radius: 10px;
            overflow: hidden;
            box-shadow: 0 10px 30px rgba(0,0,0,0.1);
        }
        .tab-buttons { display: flex; background: #f5f5f5; }
        .tab-button {
            flex: 1;
            padding: 15px;
            border: none;
            background: transparent;
            cursor: pointer;
            font-size: 16px;
            transition: all 0.3s;
        }
        .tab-button.active { background: white; color: #667eea; font-weight: bold; }
        .tab-content { display: none; padding: 30px; }
        .tab-content.active { display: block; }

        .metric-grid {
            display: grid;
            grid-template-columns: repeat(auto-fit, minmax(200px, 1fr));
            gap: 20px;
            margin: 20px 0;
        }
        .metric-card { background: #f8f9fa; padding: 20px; border-radius: 8px; text-align: center; }
        .metric-value { font-size: 32px; font-weight: bold; color: #667eea; }
        .metric-label { color: #666; margin-top: 5px; }

        .table { width: 100%; border-collapse: collapse; margin: 20px 0; }
        .table th, .table td { padding: 12px; text-align: left; border-bottom: 1px solid #ddd; }
        .table th { background: #f8f9fa; font-weight: 600; }
        h3.document { margin-top: 24px; font-family: monospace; color: #2c3e50; }

        .severity-warning { color: #ff9800; }
        .severity-info { color: #2196f3; }
        .status-ok { color: #4caf50; }
        .status-outdated { color: #ff9800; }
        .status-unknown { color: #f44336; }
        .clean { color: #4caf50; font-weight: bold; margin-top: 20px; }
    </style>
</head>
<body>
    <div class="container">
        <div class="header">
            <h1>rotron Analysis Report</h1>
            <p class="subtitle">Module: {{.Report.Project.ModulePath}} | Generated: {{.Report.GeneratedAt}} | Duration: {{.Report.DurationMs}}ms | Version: {{.Report.Version}}</p>
        </div>

        <div class="tabs">
            <div class="tab-buttons">
                <button class="tab-button active" onclick="showTab('summary', this)">Summary</button>
                <button class="tab-button" onclick="showTab('diagnostics', this)">Diagnostics</button>
                {{if .HasPackages}}
                <button class="tab-button" onclick="showTab('packages', this)">Packages</button>
                {{end}}
            </div>

            <div id="summary" class="tab-content active">
                <h2>Analysis Summary</h2>
                <div class="metric-grid">
                    <div class="metric-card">
                        <div class="metric-value">{{.Report.Summary.DocumentsAnalyzed}}</div>
                        <div class="metric-label">Files Analyzed</div>
                    </div>
                    <div class="metric-card">
                        <div class="metric-value">{{.Report.Summary.LongMethods}}</div>
                        <div class="metric-label">Long Methods</div>
                    </div>
                    <div class="metric-card">
                        <div class="metric-value">{{.Report.Summary.MagicNumbers}}</div>
                        <div class="metric-label">Magic Numbers</div>
                    </div>
                    <div class="metric-card">
                        <div class="metric-value">{{.Report.Summary.UnusedImports}}</div>
                        <div class="metric-label">Unused Imports</div>
                    </div>
                    {{if .Report.Summary.TotalLines}}
                    <div class="metric-card">
                        <div class="metric-value">{{.Report.Summary.TotalLines}}</div>
                        <div class="metric-label">Total Lines</div>
                    </div>
                    {{end}}
                    {{if .HasPackages}}
                    <div class="metric-card">
                        <div class="metric-value">{{.Report.Summary.OutdatedPackages}}/{{.Report.Summary.Packages}}</div>
                        <div class="metric-label">Outdated Packages</div>
                    </div>
                    {{end}}
                </div>

                {{if .Report.Skipped}}
                <h3>Skipped Files</h3>
                <table class="table">
                    <thead><tr><th>File</th><th>Reason</th></tr></thead>
                    <tbody>
                        {{range .Report.Skipped}}
                        <tr><td>{{.DocumentName}}</td><td>{{.Reason}}</td></tr>
                        {{end}}
                    </tbody>
                </table>
                {{end}}

                {{if .Report.Failures}}
                <h3>Check Failures</h3>
                <table class="table">
                    <thead><tr><th>Check</th><th>File</th><th>Error</th></tr></thead>
                    <tbody>
                        {{range .Report.Failures}}
                        <tr><td>{{.Check}}</td><td>{{.DocumentName}}</td><td>{{.Message}}</td></tr>
                        {{end}}
                    </tbody>
                </table>
                {{end}}
            </div>

            <div id="diagnostics" class="tab-content">
                <h2>Diagnostics</h2>
                {{range .Project}}
                <p>{{.Message}}</p>
                {{end}}
                {{range .Documents}}
                <h3 class="document">{{.Name}}</h3>
                <table class="table">
                    <thead><tr><th>Line</th><th>Check</th><th>Severity</th><th>Message</th></tr></thead>
                    <tbody>
                        {{range .Diagnostics}}
                        <tr>
                            <td>{{.Location}}</td>
                            <td>{{.Check}}</td>
                            <td class="severity-{{.Severity}}">{{.Severity}}</td>
                            <td>{{.Message}}</td>
                        </tr>
                        {{end}}
                    </tbody>
                </table>
                {{else}}
                <p class="clean">&#10003; No issues found</p>
                {{end}}
            </div>

            {{if .HasPackages}}
            <div id="packages" class="tab-content">
                <h2>Packages</h2>
                <table class="table">
                    <thead><tr><th>Package</th><th>Installed</th><th>Latest</th><th>Status</th></tr></thead>
                    <tbody>
                        {{range .Report.Packages}}
                        <tr>
                            <td>{{.Name}}{{if .Indirect}} (indirect){{end}}</td>
                            <td>{{.InstalledVersion}}</td>
                            <td>{{.LatestVersion}}</td>
                            <td class="{{statusClass .Status}}">{{.Status}}{{if .Error}}: {{firstLine .Error}}{{end}}</td>
                        </tr>
                        {{end}}
                    </tbody>
                </table>
            </div>
            {{end}}
        </div>
    </div>

    <script>
        function showTab(tabName, el) {
            document.querySelectorAll('.tab-content').forEach(tab => tab.classList.remove('active'));
            document.querySelectorAll('.tab-button').forEach(btn => btn.classList.remove('active'));
            document.getElementById(tabName).classList.add('active');
            if (el) { el.classList.add('active'); }
        }
    </script>
</body>
</html>`
