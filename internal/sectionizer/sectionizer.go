// Package sectionizer turns a parsed heading outline into the Section
// records a standard is browsed by.
package sectionizer

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/dgallion1/pmguide/internal/doctree"
	"github.com/dgallion1/pmguide/internal/model"
)

// Config controls sectioning.
type Config struct {
	MaxTokens   int // Bodies above this are split into continuation sections.
	Concurrency int // Parallel keyword extraction.
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{MaxTokens: 2000, Concurrency: 4}
}

var (
	chapterRe = regexp.MustCompile(`(?i)^chapter\s+(\d+)`)
	numberRe  = regexp.MustCompile(`^(?:(?i:section|part|appendix)\s+)?(\d+(?:\.\d+)*)\.?(?:\s|$)`)
)

// Sectionize walks tree depth first and emits one section per node that
// has body text, in document order. Nodes without text still anchor their
// children: a child's parent is its nearest ancestor that became a section.
// IDs are assigned here so parent links survive a batch insert.
func Sectionize(ctx context.Context, tree *doctree.DocTree, cfg Config) ([]model.Section, error) {
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = 2000
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = 4
	}

	var (
		secs     []model.Section
		anchor   = make(map[*doctree.DocNode]string)
		chapters = make(map[*doctree.DocNode]*int)
		ordinal  int
	)

	tree.Walk(func(n, parent *doctree.DocNode, depth int) {
		var parentID string
		if parent != nil {
			parentID = anchor[parent]
			chapters[n] = chapters[parent]
		} else if n.Title != "" {
			ordinal++
			ch := chapterNumber(n.Title, ordinal)
			chapters[n] = &ch
		}
		anchor[n] = parentID

		text := strings.TrimSpace(n.Text)
		if text == "" {
			return
		}

		title := n.Title
		if title == "" {
			title = tree.Title
		}
		if title == "" {
			title = "Introduction"
		}
		level := min(depth, model.MaxSectionLevel)

		for i, part := range splitText(text, cfg.MaxTokens) {
			sec := model.Section{
				ID:              uuid.NewString(),
				Title:           title,
				Content:         part,
				SectionNumber:   sectionNumber(n.Title),
				ChapterNumber:   chapters[n],
				Level:           level,
				ParentSectionID: parentID,
			}
			if n.Page > 0 {
				page := n.Page
				sec.PageNumber = &page
			}
			if i == 0 {
				anchor[n] = sec.ID
			} else {
				sec.Title = fmt.Sprintf("%s (part %d)", title, i+1)
			}
			secs = append(secs, sec)
		}
	})

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.Concurrency)
	for i := range secs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			secs[i].Keywords = Keywords(secs[i].Title+"\n"+secs[i].Content, MaxKeywords)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("extracting keywords: %w", err)
	}
	return secs, nil
}

// chapterNumber reads "Chapter 4" or a leading "4." from a top-level
// title, falling back to the title's ordinal position.
func chapterNumber(title string, ordinal int) int {
	if m := chapterRe.FindStringSubmatch(title); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil {
			return n
		}
	}
	if num := sectionNumber(title); num != "" {
		first, _, _ := strings.Cut(num, ".")
		if n, err := strconv.Atoi(first); err == nil {
			return n
		}
	}
	return ordinal
}

// sectionNumber extracts a dotted number such as "3.2" from the start of
// a title. "Chapter 3" yields "3".
func sectionNumber(title string) string {
	title = strings.TrimSpace(title)
	if m := chapterRe.FindStringSubmatch(title); m != nil {
		return m[1]
	}
	if m := numberRe.FindStringSubmatch(title); m != nil {
		return m[1]
	}
	return ""
}
