// Copyright (C) 2020 Markus L. Noga
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

package convert

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

// File name patterns of catalog files inside a directory
var CatalogPatterns = []string{"*.csv", "*.csv.gz", "*.csv.gzip"}

// Expands glob patterns into a sorted list of unique file names.
// Directories expand to the catalog files they contain.
func Discover(patterns []string) ([]string, error) {
	seen := map[string]bool{}
	files := []string{}
	add := func(name string) {
		if !seen[name] {
			seen[name] = true
			files = append(files, name)
		}
	}
	for _, pattern := range patterns {
		matches, err := filepath.Glob(pattern)
		if err != nil {
			return nil, fmt.Errorf("pattern %s: %w", pattern, err)
		}
		if len(matches) == 0 {
			return nil, fmt.Errorf("pattern %s matches no files", pattern)
		}
		for _, m := range matches {
			info, err := os.Stat(m)
			if err != nil {
				return nil, err
			}
			if !info.IsDir() {
				add(m)
				continue
			}
			for _, p := range CatalogPatterns {
				inDir, _ := filepath.Glob(filepath.Join(m, p))
				for _, f := range inDir {
					add(f)
				}
			}
		}
	}
	sort.Strings(files)
	return files, nil
}

// Reports whether the file name looks like a catalog file
func IsCatalog(fileName string) bool {
	base := filepath.Base(fileName)
	for _, p := range CatalogPatterns {
		if ok, _ := filepath.Match(p, base); ok {
			return true
		}
	}
	return false
}
