package application

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/example/hearing-scheduler/internal/listing"
)

type candidateFile struct {
	Candidates []CandidateDocument `yaml:"candidates"`
}

// ReadCandidateDocuments parses a YAML or JSON candidate file. The document
// is either a list of candidates or a mapping with a candidates key.
func ReadCandidateDocuments(r io.Reader) ([]CandidateDocument, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read candidates: %w", err)
	}

	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("read candidates: %w", err)
	}
	if len(root.Content) == 0 {
		return []CandidateDocument{}, nil
	}

	switch doc := root.Content[0]; doc.Kind {
	case yaml.SequenceNode:
		var docs []CandidateDocument
		if err := decodeYAML(bytes.NewReader(data), &docs); err != nil {
			return nil, fmt.Errorf("read candidates: %w", err)
		}
		return docs, nil
	case yaml.MappingNode:
		var file candidateFile
		if err := decodeYAML(bytes.NewReader(data), &file); err != nil {
			return nil, fmt.Errorf("read candidates: %w", err)
		}
		if file.Candidates == nil {
			return []CandidateDocument{}, nil
		}
		return file.Candidates, nil
	default:
		return nil, fmt.Errorf("read candidates: expected a list or a mapping at line %d", doc.Line)
	}
}

// ReadSlotTable parses a mapping of booking reference to reserved court
// schedule ids.
func ReadSlotTable(r io.Reader) (map[string][]string, error) {
	table := map[string][]string{}
	if err := decodeYAML(r, &table); err != nil {
		return nil, fmt.Errorf("read slot table: %w", err)
	}
	for ref := range table {
		if strings.TrimSpace(ref) == "" {
			return nil, fmt.Errorf("read slot table: empty booking reference")
		}
	}
	return table, nil
}

// ReadCommittingCourts parses a mapping of offence id to committing court
// and returns a lookup over it.
func ReadCommittingCourts(r io.Reader) (listing.CommittingCourtLookup, int, error) {
	courts := map[string]CommittingCourtDocument{}
	if err := decodeYAML(r, &courts); err != nil {
		return nil, 0, fmt.Errorf("read committing courts: %w", err)
	}

	table := make(map[string]listing.CommittingCourt, len(courts))
	for offenceID, court := range courts {
		if strings.TrimSpace(court.CourtHouseCode) == "" {
			return nil, 0, fmt.Errorf("read committing courts: offence %q has no court_house_code", offenceID)
		}
		table[offenceID] = listing.CommittingCourt{
			CourtHouseCode: court.CourtHouseCode,
			CourtHouseName: court.CourtHouseName,
			CourtHouseType: court.CourtHouseType,
		}
	}

	lookup := func(offenceID string) (listing.CommittingCourt, bool) {
		court, ok := table[offenceID]
		return court, ok
	}
	return lookup, len(table), nil
}

// decodeYAML decodes the first document of r, rejecting unknown fields. An
// empty input leaves out untouched.
func decodeYAML(r io.Reader, out any) error {
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	if err := decoder.Decode(out); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}
