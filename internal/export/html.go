package export

import (
	"os"

	"github.com/jedib0t/go-pretty/v6/table"

	"roomreviews/internal/domain"
)

func writeHTML(results []domain.RoomResult, path string) error {
	rows := Flatten(results)

	tw := table.NewWriter()
	header := table.Row{}
	for _, h := range headerStrings() {
		header = append(header, h)
	}
	tw.AppendHeader(header)
	for _, r := range rows {
		tw.AppendRow(table.Row(r.cells()))
	}

	return os.WriteFile(path, []byte(tw.RenderHTML()+"\n"), 0o644)
}
