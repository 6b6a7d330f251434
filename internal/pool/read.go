package pool

import (
	"bufio"
	"context"
	"database/sql"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	// registers the "sqlite" database/sql driver
	_ "modernc.org/sqlite"
)

// ReadFASTA loads a pool from a FASTA file. Headers are ignored and
// multi-line records are joined.
func ReadFASTA(path string) (*Pool, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open pool file: %w", err)
	}
	defer f.Close()

	var seqs []string
	var current strings.Builder
	flush := func() {
		if current.Len() > 0 {
			seqs = append(seqs, current.String())
			current.Reset()
		}
	}

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		switch {
		case line == "", strings.HasPrefix(line, ";"):
		case strings.HasPrefix(line, ">"):
			flush()
		default:
			current.WriteString(line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	flush()

	p, err := New(seqs)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return p, nil
}

// ReadYAML loads a pool from a YAML file that's either a flat list of
// sequences or a map from length to a list of sequences:
//
//	10:
//	  - ATCGATCGAT
//	15:
//	  - ATCGATCGATCGATC
func ReadYAML(path string) (*Pool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read pool file: %w", err)
	}
	return ParseYAML(data)
}

// ParseYAML parses a pool from YAML bytes, see ReadYAML
func ParseYAML(data []byte) (*Pool, error) {
	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	if len(node.Content) == 0 {
		return New(nil)
	}

	var seqs []string
	root := node.Content[0]
	switch root.Kind {
	case yaml.SequenceNode:
		if err := root.Decode(&seqs); err != nil {
			return nil, fmt.Errorf("failed to parse pool list: %w", err)
		}
	case yaml.MappingNode:
		var byLength map[int][]string
		if err := root.Decode(&byLength); err != nil {
			return nil, fmt.Errorf("failed to parse pool map: %w", err)
		}
		for length, group := range byLength {
			for _, s := range group {
				if len(s) != length {
					return nil, fmt.Errorf("pool sequence %s is %dbp, listed under %d", s, len(s), length)
				}
			}
			seqs = append(seqs, group...)
		}
	default:
		return nil, fmt.Errorf("pool YAML must be a list or a map of length to sequences")
	}

	return New(seqs)
}

// ReadSQLite loads a pool from the sequences table of an SQLite database:
//
//	CREATE TABLE sequences (sequence TEXT NOT NULL)
//
// The database is opened read-only.
func ReadSQLite(ctx context.Context, path string) (*Pool, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("failed to open pool database: %w", err)
	}

	db, err := sql.Open("sqlite", "file:"+path+"?mode=ro")
	if err != nil {
		return nil, fmt.Errorf("failed to open pool database: %w", err)
	}
	defer db.Close()

	rows, err := db.QueryContext(ctx, `SELECT sequence FROM sequences ORDER BY rowid`)
	if err != nil {
		return nil, fmt.Errorf("failed to query sequences: %w", err)
	}
	defer rows.Close()

	var seqs []string
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, fmt.Errorf("failed to scan sequence: %w", err)
		}
		seqs = append(seqs, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read sequences: %w", err)
	}

	return New(seqs)
}

// Read loads a pool by file extension: .fa/.fasta, .yaml/.yml, .db/.sqlite
func Read(ctx context.Context, path string) (*Pool, error) {
	lower := strings.ToLower(path)
	switch {
	case strings.HasSuffix(lower, ".fa"), strings.HasSuffix(lower, ".fasta"):
		return ReadFASTA(path)
	case strings.HasSuffix(lower, ".yaml"), strings.HasSuffix(lower, ".yml"):
		return ReadYAML(path)
	case strings.HasSuffix(lower, ".db"), strings.HasSuffix(lower, ".sqlite"), strings.HasSuffix(lower, ".sqlite3"):
		return ReadSQLite(ctx, path)
	default:
		return nil, fmt.Errorf("unknown pool file type %s, use .fasta, .yaml or .db", path)
	}
}
