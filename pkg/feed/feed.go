// Package feed decodes the static JSON snapshots the page is built on
// and converts them into renderer-ready series. The engine only requires
// the documents to be valid or entirely absent: a missing document loads
// as nil and every renderer no-ops on nil input.
package feed

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/raykavin/hindsight/pkg/core"
)

// LoadComparison decodes the all-stocks comparison document.
func LoadComparison(r io.Reader) (*core.ComparisonDocument, error) {
	var doc core.ComparisonDocument
	if err := decode(r, &doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

// LoadBenchmarkPair decodes the two pre-aligned normalized series.
func LoadBenchmarkPair(r io.Reader) (*core.BenchmarkPairDocument, error) {
	var doc core.BenchmarkPairDocument
	if err := decode(r, &doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

// LoadHindsight decodes the long-series document for the hindsight demo.
func LoadHindsight(r io.Reader) (core.HindsightDocument, error) {
	var doc core.HindsightDocument
	if err := decode(r, &doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// ComparisonFromFile loads the comparison document from disk.
// An absent file is not an error: the document is simply nil.
func ComparisonFromFile(path string) (*core.ComparisonDocument, error) {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	defer file.Close()

	return LoadComparison(file)
}

// BenchmarkPairFromFile loads the benchmark-pair document from disk.
func BenchmarkPairFromFile(path string) (*core.BenchmarkPairDocument, error) {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	defer file.Close()

	return LoadBenchmarkPair(file)
}

// HindsightFromFile loads the hindsight document from disk.
func HindsightFromFile(path string) (core.HindsightDocument, error) {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	defer file.Close()

	return LoadHindsight(file)
}

func decode(r io.Reader, v any) error {
	if r == nil {
		return fmt.Errorf("%w: nil reader", core.ErrMissingData)
	}

	if err := json.NewDecoder(r).Decode(v); err != nil {
		return fmt.Errorf("decode document: %w", err)
	}
	return nil
}
