package grove

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/jward/grove/internal/graph"
	"github.com/jward/grove/internal/store"
)

// Report is the serializable summary of a session: per-language
// aggregates, the edge list, and the top rankings. Function inventories
// are exported separately (JSON per record, or the SQLite sink) because
// they dwarf the summary.
type Report struct {
	Root        string                `json:"root"`
	Languages   []graph.LanguageStats `json:"languages"`
	Functions   int                   `json:"functions"`
	Modules     int                   `json:"modules"`
	Structs     int                   `json:"structs"`
	Edges       []graph.CallGraphEdge `json:"edges"`
	MostCalled  []Ranking             `json:"most_called"`
	MostCalling []Ranking             `json:"most_calling"`
	Isolated    []string              `json:"isolated,omitempty"`
}

// rankingLimit bounds the ranking sections of a report.
const rankingLimit = 10

// Report builds the summary view of the session.
func (a *Analysis) Report() *Report {
	return &Report{
		Root:        a.Root,
		Languages:   a.Statistics(),
		Functions:   len(a.All),
		Modules:     len(a.Modules),
		Structs:     len(a.Structs),
		Edges:       a.Edges,
		MostCalled:  a.MostCalled(rankingLimit),
		MostCalling: a.MostCalling(rankingLimit),
		Isolated:    a.Isolated(),
	}
}

// WriteJSON writes the summary report as indented JSON.
func (a *Analysis) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(a.Report()); err != nil {
		return fmt.Errorf("grove: encode report: %w", err)
	}
	return nil
}

// WriteFunctionsJSON writes the full function inventory as an indented
// JSON array, in deterministic name order.
func (a *Analysis) WriteFunctionsJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(a.All); err != nil {
		return fmt.Errorf("grove: encode functions: %w", err)
	}
	return nil
}

// ExportSQLite writes the whole session to a SQLite database at dbPath.
// The database is a downstream artifact; nothing in the session reads it
// back.
func (a *Analysis) ExportSQLite(dbPath string) error {
	s, err := store.NewStore(dbPath)
	if err != nil {
		return fmt.Errorf("grove: export: %w", err)
	}
	defer s.Close()

	if err := s.Migrate(); err != nil {
		return fmt.Errorf("grove: export: %w", err)
	}
	if err := s.InsertModules(a.Modules); err != nil {
		return fmt.Errorf("grove: export modules: %w", err)
	}
	if err := s.InsertFunctions(a.All, featureFlags); err != nil {
		return fmt.Errorf("grove: export functions: %w", err)
	}
	if err := s.InsertStructs(a.Structs); err != nil {
		return fmt.Errorf("grove: export structs: %w", err)
	}
	if err := s.InsertEdges(a.Edges); err != nil {
		return fmt.Errorf("grove: export edges: %w", err)
	}
	if err := s.InsertStats(a.Statistics()); err != nil {
		return fmt.Errorf("grove: export stats: %w", err)
	}
	if err := s.InsertRankings("most_called", toEntries(a.MostCalled(rankingLimit))); err != nil {
		return fmt.Errorf("grove: export rankings: %w", err)
	}
	if err := s.InsertRankings("most_calling", toEntries(a.MostCalling(rankingLimit))); err != nil {
		return fmt.Errorf("grove: export rankings: %w", err)
	}
	return nil
}

func toEntries(rankings []Ranking) []store.RankingEntry {
	entries := make([]store.RankingEntry, len(rankings))
	for i, r := range rankings {
		entries[i] = store.RankingEntry{Name: r.Name, Count: r.Count}
	}
	return entries
}
