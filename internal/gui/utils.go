package gui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/thiagokokada/gitlanes/internal/git"
)

type treeRow struct {
	ID     string
	Commit string
	Author string
	Date   string
}

func buildTreeRows(entries []*git.Entry) []treeRow {
	if len(entries) == 0 {
		return nil
	}
	rows := make([]treeRow, 0, len(entries))
	for i, entry := range entries {
		if entry == nil || entry.Commit == nil {
			continue
		}
		msg, author, when := commitListColumns(entry)
		rows = append(rows, treeRow{
			ID:     strconv.Itoa(i),
			Commit: msg,
			Author: author,
			Date:   when,
		})
	}
	return rows
}

func commitListColumns(entry *git.Entry) (msg, author, when string) {
	firstLine := strings.SplitN(strings.TrimSpace(entry.Commit.Message), "\n", 2)[0]
	if len(firstLine) > 80 {
		firstLine = firstLine[:77] + "..."
	}
	msg = fmt.Sprintf("%s  %s", shortHash(entry.Commit.Hash), firstLine)
	author = fmt.Sprintf("%s <%s>", entry.Commit.Author.Name, entry.Commit.Author.Email)
	when = entry.Commit.Committer.When.Format("2006-01-02 15:04")
	return
}

func shortHash(hash string) string {
	if len(hash) > 7 {
		return hash[:7]
	}
	return hash
}

func filterEntries(entries []*git.Entry, query string) []*git.Entry {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return entries
	}
	var filtered []*git.Entry
	for _, entry := range entries {
		if strings.Contains(entry.SearchText, q) {
			filtered = append(filtered, entry)
		}
	}
	return filtered
}

func escapeTclString(s string) string {
	replacer := strings.NewReplacer(
		`\`, `\\`,
		`{`, `\{`,
		`}`, `\}`,
	)
	return replacer.Replace(s)
}
