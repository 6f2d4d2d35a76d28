package gtfs

import (
	"archive/zip"
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/gocarina/gocsv"
	"github.com/rs/zerolog/log"
)

// ErrMissingFile is returned when a required table is absent from the archive.
var ErrMissingFile = errors.New("gtfs: required file missing")

var requiredFiles = []string{"stops.txt", "routes.txt", "trips.txt", "stop_times.txt"}

// ParseZip parses a GTFS zip archive held in memory and validates its rows.
func ParseZip(data []byte) (*Tables, error) {
	return ParseZipReader(bytes.NewReader(data), int64(len(data)))
}

// ParseZipFile parses a GTFS zip archive from disk.
func ParseZipFile(path string) (*Tables, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseZip(data)
}

// ParseZipReader parses a GTFS zip archive from any io.ReaderAt.
func ParseZipReader(r io.ReaderAt, size int64) (*Tables, error) {
	// Allow records with missing trailing columns
	gocsv.SetCSVReader(func(in io.Reader) gocsv.CSVReader {
		cr := csv.NewReader(in)
		cr.FieldsPerRecord = -1
		cr.LazyQuotes = true
		return cr
	})

	archive, err := zip.NewReader(r, size)
	if err != nil {
		return nil, fmt.Errorf("open gtfs archive: %w", err)
	}

	t := &Tables{}
	fileMap := map[string]interface{}{
		"agency.txt":          &t.Agencies,
		"stops.txt":           &t.Stops,
		"routes.txt":          &t.Routes,
		"trips.txt":           &t.Trips,
		"stop_times.txt":      &t.StopTimes,
		"fare_attributes.txt": &t.FareAttributes,
		"fare_rules.txt":      &t.FareRules,
	}

	seen := map[string]bool{}
	for _, zipFile := range archive.File {
		// some publishers nest the tables in a directory
		name := strings.ToLower(zipFile.Name[strings.LastIndex(zipFile.Name, "/")+1:])
		destination, exists := fileMap[name]
		if !exists {
			log.Debug().Str("file", zipFile.Name).Msg("Skipping gtfs file")
			continue
		}
		if err := unmarshalZipFile(zipFile, destination); err != nil {
			return nil, fmt.Errorf("parse %s: %w", name, err)
		}
		seen[name] = true
	}

	for _, name := range requiredFiles {
		if !seen[name] {
			return nil, fmt.Errorf("%w: %s", ErrMissingFile, name)
		}
	}

	report := t.validate()
	for file, n := range report {
		log.Warn().Str("file", file).Int("dropped", n).Msg("Dropped invalid gtfs rows")
	}
	log.Info().
		Int("stops", len(t.Stops)).
		Int("routes", len(t.Routes)).
		Int("trips", len(t.Trips)).
		Int("stopTimes", len(t.StopTimes)).
		Int("fareRules", len(t.FareRules)).
		Msg("Loaded gtfs tables")

	return t, nil
}

func unmarshalZipFile(zipFile *zip.File, destination interface{}) error {
	fileReader, err := zipFile.Open()
	if err != nil {
		return err
	}
	defer func() { _ = fileReader.Close() }()

	// gocsv does not strip the UTF-8 byte order mark some exporters write
	body, err := io.ReadAll(fileReader)
	if err != nil {
		return err
	}
	body = bytes.TrimPrefix(body, []byte("\xef\xbb\xbf"))
	if len(bytes.TrimSpace(body)) == 0 {
		return nil
	}
	return gocsv.UnmarshalBytes(body, destination)
}
