package render

import (
	"strings"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/trebuchet-org/lspdeploy/internal/domain"
)

var (
	labelStyle         = color.New(color.Faint)
	addressStyle       = color.New(color.FgHiWhite, color.Bold)
	saltStyle          = color.New(color.FgCyan)
	sectionHeaderStyle = color.New(color.Bold, color.FgHiWhite)
	chainHeader        = color.New(color.BgCyan, color.FgBlack)
	chainHeaderBold    = color.New(color.BgCyan, color.FgBlack, color.Bold)
	warningStyle       = color.New(color.FgYellow)
	okStyle            = color.New(color.FgGreen)
	badStyle           = color.New(color.FgRed)
)

var titleCaser = cases.Title(language.English)

// FormatWarning formats a warning message with the warning icon
func FormatWarning(message string) string {
	return warningStyle.Sprintf("⚠️  %s", message)
}

// FormatError formats an error message with the error icon
func FormatError(message string) string {
	msg := message
	if len(msg) > 0 {
		msg = strings.ToUpper(msg[:1]) + msg[1:]
	}

	return badStyle.Sprintf("❌ %s", msg)
}

// FormatSuccess formats a success message with the success icon
func FormatSuccess(message string) string {
	return okStyle.Sprintf("✅ %s", message)
}

// kindLabel turns a spec kind such as "proxy-noinit" into "Proxy Noinit"
func kindLabel(kind domain.SpecKind) string {
	return titleCaser.String(strings.ReplaceAll(string(kind), "-", " "))
}

// keyValueTable renders label/value pairs without borders
func keyValueTable(rows [][2]string) string {
	t := table.NewWriter()
	t.SetStyle(table.StyleLight)
	t.Style().Options.DrawBorder = false
	t.Style().Options.SeparateColumns = false
	t.Style().Options.SeparateHeader = false
	t.Style().Options.SeparateRows = false
	t.Style().Box = table.BoxStyle{PaddingLeft: "  ", PaddingRight: " "}
	t.SetColumnConfigs([]table.ColumnConfig{{Number: 1, Align: text.AlignLeft}})

	for _, row := range rows {
		t.AppendRow(table.Row{labelStyle.Sprint(row[0]), row[1]})
	}
	return t.Render()
}
