package review

import "github.com/witherBattler/edit-hunt-ai/internal/lead"

// collection is an insertion-ordered list of records keyed by text.
type collection struct {
	records []lead.Record
	texts   map[string]int // text -> number of records carrying it
}

func newCollection() *collection {
	return &collection{records: []lead.Record{}, texts: map[string]int{}}
}

// restoreCollection keeps records exactly as read, duplicates included.
func restoreCollection(records []lead.Record) *collection {
	c := newCollection()
	for _, rec := range records {
		c.records = append(c.records, rec)
		c.texts[rec.Text]++
	}
	return c
}

func (c *collection) contains(text string) bool {
	return c.texts[text] > 0
}

// add appends rec unless a record with the same text is present.
func (c *collection) add(rec lead.Record) bool {
	if c.contains(rec.Text) {
		return false
	}
	c.records = append(c.records, rec)
	c.texts[rec.Text] = 1
	return true
}

// remove drops every record with the given text.
func (c *collection) remove(text string) int {
	n := c.texts[text]
	if n == 0 {
		return 0
	}
	kept := c.records[:0]
	for _, rec := range c.records {
		if rec.Text != text {
			kept = append(kept, rec)
		}
	}
	// Clear the tail so dropped records can be collected.
	for i := len(kept); i < len(c.records); i++ {
		c.records[i] = lead.Record{}
	}
	c.records = kept
	delete(c.texts, text)
	return n
}

func (c *collection) len() int { return len(c.records) }

func (c *collection) snapshot() []lead.Record {
	out := make([]lead.Record, len(c.records))
	copy(out, c.records)
	return out
}

func texts(records []lead.Record) []string {
	out := make([]string, len(records))
	for i, rec := range records {
		out[i] = rec.Text
	}
	return out
}
