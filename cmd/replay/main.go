package main

import (
	"bufio"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/klauspost/compress/zstd"

	"monument.ai/internal/protocol"
)

// replay prints the goal timeline of a match from its events logs.
func main() {
	var (
		eventsDir = flag.String("events", "", "events dir containing events-*.jsonl.zst")
		goalID    = flag.String("goal", "", "only show this goal (optional)")
	)
	flag.Parse()

	if *eventsDir == "" {
		fmt.Fprintln(os.Stderr, "missing -events")
		os.Exit(2)
	}
	files, err := listEventFiles(*eventsDir)
	if err != nil {
		fmt.Fprintln(os.Stderr, "list events:", err)
		os.Exit(1)
	}
	if len(files) == 0 {
		fmt.Fprintln(os.Stderr, "no events files found in", *eventsDir)
		os.Exit(1)
	}

	var tl timeline
	for _, path := range files {
		if err := readFile(path, tl.add); err != nil {
			fmt.Fprintln(os.Stderr, "replay:", err)
			os.Exit(1)
		}
	}
	tl.print(os.Stdout, *goalID)
}

func listEventFiles(dir string) ([]string, error) {
	ents, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(ents))
	for _, e := range ents {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if strings.HasPrefix(name, "events-") && strings.HasSuffix(name, ".jsonl.zst") {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	out := make([]string, 0, len(names))
	for _, name := range names {
		out = append(out, filepath.Join(dir, name))
	}
	return out, nil
}

func readFile(path string, fn func(protocol.EventMsg)) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	dec, err := zstd.NewReader(f)
	if err != nil {
		return err
	}
	defer dec.Close()

	sc := bufio.NewScanner(dec)
	sc.Buffer(make([]byte, 64*1024), 8*1024*1024)
	for sc.Scan() {
		var ev protocol.EventMsg
		if err := json.Unmarshal(sc.Bytes(), &ev); err != nil {
			return fmt.Errorf("%s: unmarshal: %w", filepath.Base(path), err)
		}
		fn(ev)
	}
	return sc.Err()
}

type completion struct {
	tick   uint64
	goalID string
	owner  string
	by     []string
}

type timeline struct {
	matches     int
	completions []completion
	winner      string
	endTick     uint64
	ended       bool
}

func (t *timeline) add(ev protocol.EventMsg) {
	switch ev.Event {
	case protocol.EventMatchStart:
		t.matches++
	case protocol.EventGoalComplete:
		c := completion{tick: ev.Tick, goalID: ev.GoalID, owner: ev.Owner}
		for _, p := range ev.Contributions {
			c.by = append(c.by, p.PlayerID)
		}
		t.completions = append(t.completions, c)
	case protocol.EventMatchEnd:
		t.ended = true
		t.winner = ev.Winner
		t.endTick = ev.Tick
	}
}

func (t *timeline) print(w io.Writer, goalID string) {
	fmt.Fprintf(w, "matches=%d completions=%d\n", t.matches, len(t.completions))
	for _, c := range t.completions {
		if goalID != "" && c.goalID != goalID {
			continue
		}
		fmt.Fprintf(w, "tick=%d goal=%s team=%s by=%s\n", c.tick, c.goalID, c.owner, strings.Join(c.by, ","))
	}
	if t.ended {
		fmt.Fprintf(w, "tick=%d winner=%s\n", t.endTick, t.winner)
	}
}
