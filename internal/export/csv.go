package export

import (
	"os"

	"github.com/gocarina/gocsv"

	"roomreviews/internal/domain"
)

func writeCSV(results []domain.RoomResult, path string) error {
	rows := Flatten(results)

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := gocsv.Marshal(&rows, f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
