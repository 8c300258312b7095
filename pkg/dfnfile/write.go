package dfnfile

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/ha1tch/atlas-toolkit/pkg/region"
)

// structural keys are written from fields, never from the tag map.
var structural = map[string]bool{
	"NAME": true,
	"X1":   true,
	"Y1":   true,
	"X2":   true,
	"Y2":   true,
}

// Write serializes regions as DFN blocks numbered from 1.
//
// NAME is written only when the region carries a NAME tag, so a region
// named purely in memory reloads as "Unnamed". Other tags follow in key
// order, then one X1,Y1,X2,Y2 quad per rectangle. Regions without
// rectangles are skipped and do not use up a block number.
func Write(w io.Writer, regions []*region.Region) error {
	bw := bufio.NewWriter(w)
	n := 0
	for _, r := range regions {
		if len(r.Bounds) == 0 {
			continue
		}
		n++
		writeBlock(bw, n, r)
	}
	return bw.Flush()
}

func writeBlock(w *bufio.Writer, n int, r *region.Region) {
	fmt.Fprintf(w, "[REGION %d]\n{\n", n)
	if r.HasTag("NAME") {
		fmt.Fprintf(w, "NAME=%s\n", r.Name)
	}
	for _, k := range tagKeys(r) {
		fmt.Fprintf(w, "%s=%s\n", k, r.Tags[k])
	}
	for _, b := range r.Bounds {
		fmt.Fprintf(w, "X1=%d\nY1=%d\nX2=%d\nY2=%d\n", b.Left, b.Top, b.Right, b.Bottom)
	}
	w.WriteString("}\n\n")
}

// tagKeys returns the non-structural tag keys, sorted.
func tagKeys(r *region.Region) []string {
	keys := make([]string, 0, len(r.Tags))
	for k := range r.Tags {
		if structural[strings.ToUpper(k)] {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Format returns regions as DFN text.
func Format(regions []*region.Region) string {
	var sb strings.Builder
	Write(&sb, regions)
	return sb.String()
}

// FormatRegion returns a single region as a DFN block numbered n.
func FormatRegion(n int, r *region.Region) string {
	var sb strings.Builder
	bw := bufio.NewWriter(&sb)
	writeBlock(bw, n, r)
	bw.Flush()
	return sb.String()
}

// WriteFile writes regions to path. The data goes to a temporary file in
// the same directory which then replaces path, so a failed write leaves
// the previous file intact.
func WriteFile(path string, regions []*region.Region) error {
	return writeAtomic(path, []byte(Format(regions)))
}

func writeAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".dfn-*")
	if err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	tmpName := tmp.Name()
	fail := func(err error) error {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("save %s: %w", path, err)
	}

	if _, err := tmp.Write(data); err != nil {
		return fail(err)
	}
	if err := tmp.Chmod(0o644); err != nil {
		return fail(err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("save %s: %w", path, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("save %s: %w", path, err)
	}
	return nil
}
