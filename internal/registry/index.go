package registry

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/google/uuid"
)

// listingRecord mirrors the inline table of one listing line:
//
//	<identity> = { name = "<name>", path = "<relative-path>" }
type listingRecord struct {
	Name string `toml:"name"`
	Path string `toml:"path"`
}

// BuildIndex scans each registry's package listing and returns an Index
// covering the requested names. Listings are filtered line-by-line with a
// cheap substring match before any record is fully parsed, so only records
// for requested names pay parsing cost. A line that passes the name filter
// but fails the record grammar is a *MalformedError; a name with no matching
// record anywhere is simply absent from the returned Index.
func BuildIndex(registries []Registry, names []string) (Index, error) {
	needles := make(map[string]string, len(names))
	for _, name := range names {
		needles[name] = `name = "` + name + `"`
	}

	idx := make(Index)
	for _, reg := range registries {
		if err := scanListing(reg, needles, idx); err != nil {
			return nil, err
		}
	}
	return idx, nil
}

// scanListing reads one registry's listing line-by-line and adds matching
// records to idx. Within a single registry, a name must map to exactly one
// identity; a second identity for the same name is a malformed listing.
func scanListing(reg Registry, needles map[string]string, idx Index) error {
	path := reg.ListingPath()
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening listing %s: %w", path, err)
	}
	defer f.Close()

	nameToID := make(map[string]uuid.UUID)

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Text()

		matched := false
		for _, needle := range needles {
			if strings.Contains(line, needle) {
				matched = true
				break
			}
		}
		if !matched {
			continue
		}

		id, rec, err := parseListingLine(path, line)
		if err != nil {
			return err
		}
		if _, requested := needles[rec.Name]; !requested {
			// The needle hit something other than the name field
			// (e.g. inside the path). Not a record we asked for.
			continue
		}

		if prev, ok := nameToID[rec.Name]; ok && prev != id {
			return &MalformedError{
				Path:    path,
				Content: line,
				Reason:  fmt.Sprintf("name %q already listed under identity %s", rec.Name, prev),
			}
		}
		nameToID[rec.Name] = id

		byID := idx[rec.Name]
		if byID == nil {
			byID = make(map[uuid.UUID][]string)
			idx[rec.Name] = byID
		}
		byID[id] = append(byID[id], filepath.Join(reg.Path, filepath.FromSlash(rec.Path)))
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("reading listing %s: %w", path, err)
	}

	return nil
}

// parseListingLine fully parses one pre-filtered listing line.
func parseListingLine(path, line string) (uuid.UUID, listingRecord, error) {
	var doc map[string]listingRecord
	if err := toml.Unmarshal([]byte(line), &doc); err != nil {
		return uuid.UUID{}, listingRecord{}, &MalformedError{
			Path:    path,
			Content: line,
			Reason:  fmt.Sprintf("decoding listing record: %v", err),
		}
	}
	if len(doc) != 1 {
		return uuid.UUID{}, listingRecord{}, &MalformedError{
			Path:    path,
			Content: line,
			Reason:  fmt.Sprintf("listing line must hold exactly one record, got %d", len(doc)),
		}
	}

	for key, rec := range doc {
		// Identities are canonical 36-character UUID strings; reject the
		// alternate encodings uuid.Parse would otherwise tolerate.
		if len(key) != 36 {
			return uuid.UUID{}, listingRecord{}, &MalformedError{
				Path: path, Content: line, Reason: "record key is not a canonical UUID",
			}
		}
		id, err := uuid.Parse(key)
		if err != nil {
			return uuid.UUID{}, listingRecord{}, &MalformedError{
				Path: path, Content: line, Reason: fmt.Sprintf("record key is not a valid UUID: %v", err),
			}
		}
		if rec.Name == "" || rec.Path == "" {
			return uuid.UUID{}, listingRecord{}, &MalformedError{
				Path: path, Content: line, Reason: "record missing name or path",
			}
		}
		return id, rec, nil
	}

	// Unreachable: the map holds exactly one entry.
	return uuid.UUID{}, listingRecord{}, &MalformedError{Path: path, Content: line, Reason: "empty record"}
}
