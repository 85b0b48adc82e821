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
	"context"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Default quiet period after the last change to a file before it is converted
const DefaultDebounce = 2 * time.Second

// Watches a directory and converts catalog files once they stopped changing
// for the debounce period. Changed files are always converted again. Each
// result is passed to done, if not nil. Returns ctx.Err() when cancelled.
func (j *Job) Watch(ctx context.Context, dir string, debounce time.Duration, logWriter io.Writer, done func(FileResult)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()
	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("watching %s: %w", dir, err)
	}
	fmt.Fprintf(logWriter, "Watching %s for catalog files...\n", dir)

	forced := *j
	forced.Force = true
	deb := newDebouncer(debounce)
	defer deb.stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			name := filepath.Clean(event.Name)
			if !IsCatalog(name) {
				continue
			}
			deb.touch(ctx, name)

		case ev := <-deb.ready:
			if !deb.due(ev) {
				continue
			}
			res := forced.ConvertFile(ctx, ev.name, logWriter)
			if done != nil {
				done(res)
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			fmt.Fprintf(logWriter, "Watcher error: %v\n", err)
		}
	}
}

// A debounce timer which fired for a file, tagged with the generation that armed it
type fired struct {
	name string
	gen  uint64
}

// Per-file debounce timers, owned by a single goroutine. Stopping a timer
// whose callback already started does not recall its event, so only the
// event of the latest generation for a file counts.
type debouncer struct {
	delay  time.Duration
	ready  chan fired
	timers map[string]*time.Timer
	gens   map[string]uint64
	seq    uint64
}

func newDebouncer(delay time.Duration) *debouncer {
	return &debouncer{
		delay:  delay,
		ready:  make(chan fired, 64),
		timers: map[string]*time.Timer{},
		gens:   map[string]uint64{},
	}
}

// Restarts the quiet period for the file
func (d *debouncer) touch(ctx context.Context, name string) {
	if t, ok := d.timers[name]; ok {
		t.Stop()
	}
	d.seq++
	d.gens[name] = d.seq
	ev := fired{name: name, gen: d.seq}
	d.timers[name] = time.AfterFunc(d.delay, func() {
		select {
		case d.ready <- ev:
		case <-ctx.Done():
		}
	})
}

// Reports whether the event is the latest for its file. If so, the file is
// forgotten until touched again.
func (d *debouncer) due(ev fired) bool {
	if gen, ok := d.gens[ev.name]; !ok || gen != ev.gen {
		return false
	}
	delete(d.gens, ev.name)
	delete(d.timers, ev.name)
	return true
}

func (d *debouncer) stop() {
	for _, t := range d.timers {
		t.Stop()
	}
}
