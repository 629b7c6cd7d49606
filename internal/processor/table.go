package processor

import (
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// column describes one column of a command's table.
type column struct {
	title string
	align text.Align
	// width caps the cell width; longer cells are trimmed.
	width int
}

var (
	termColumns = []column{
		{title: "Raw"},
		{title: "Translated"},
		{title: "Type"},
		{title: "Status"},
	}
	entryColumns = []column{
		{title: "Type"},
		{title: "Raw"},
		{title: "Translated"},
		{title: "Book"},
	}
	bookColumns = []column{
		{title: "ID"},
		{title: "Title", width: 40},
		{title: "Author", width: 30},
		{title: "Created"},
	}
	chapterColumns = []column{
		{title: "Order", align: text.AlignRight},
		{title: "ID"},
		{title: "Title", width: 40},
		{title: "Status"},
		{title: "Paragraphs", align: text.AlignRight},
	}
	batchColumns = []column{
		{title: "Line", align: text.AlignRight},
		{title: "File"},
		{title: "Order", align: text.AlignRight},
		{title: "Title", width: 40},
		{title: "Paragraphs", align: text.AlignRight},
		{title: "Status", width: 60},
	}
)

// printTable writes rows under the given columns to w.
func printTable(w io.Writer, columns []column, rows []table.Row) {
	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.SetStyle(table.StyleRounded)

	header := make(table.Row, len(columns))
	configs := make([]table.ColumnConfig, len(columns))
	for i, c := range columns {
		header[i] = c.title
		configs[i] = table.ColumnConfig{
			Number:      i + 1,
			Align:       c.align,
			AlignHeader: text.AlignLeft,
		}
		if c.width > 0 {
			configs[i].WidthMax = c.width
			configs[i].WidthMaxEnforcer = text.Trim
		}
	}
	tw.AppendHeader(header)
	tw.SetColumnConfigs(configs)
	tw.AppendRows(rows)
	tw.Render()
}
