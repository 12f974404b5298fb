/*
Copyright 2026 Assistbot Authors
SPDX-License-Identifier: Apache-2.0
*/

package commentmanager

import (
	"bytes"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/renderer"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/assistbot/mention-action/clidispatch"
	"github.com/assistbot/mention-action/gitstate"
	"github.com/assistbot/mention-action/trigger"
)

// Summary renders the workflow step summary as a markdown table of run
// facts. It tolerates a nil outcome, which happens when the run fails
// before the tool is invoked.
func Summary(res trigger.Result, tool clidispatch.ToolID, out *clidispatch.Outcome, commits []gitstate.Commit) string {
	var buf bytes.Buffer
	table := newMarkdownTable([]string{"Field", "Value"}, &buf)

	_ = table.Append([]string{"Trigger", res.Reason})
	_ = table.Append([]string{"Provider", string(res.Provider)})
	_ = table.Append([]string{"Tool", string(tool)})
	if out != nil {
		_ = table.Append([]string{"Conclusion", out.Conclusion})
		_ = table.Append([]string{"Exit code", strconv.Itoa(out.ExitCode)})
		_ = table.Append([]string{"Duration", out.Duration.Round(time.Second).String()})
	}
	_ = table.Append([]string{"Commits", strconv.Itoa(len(commits))})
	_ = table.Render()

	return fmt.Sprintf("## Mention run\n\n%s", buf.String())
}

// newMarkdownTable creates a table writer that renders GitHub-flavored
// markdown, suitable for the step summary file.
func newMarkdownTable(headers []string, w io.Writer) *tablewriter.Table {
	cfg := tablewriter.Config{
		Header: tw.CellConfig{
			Alignment:  tw.CellAlignment{Global: tw.AlignLeft},
			Formatting: tw.CellFormatting{AutoFormat: tw.Off},
		},
		Row: tw.CellConfig{
			Alignment: tw.CellAlignment{Global: tw.AlignLeft},
		},
		Behavior: tw.Behavior{TrimSpace: tw.Off},
	}
	return tablewriter.NewTable(w,
		tablewriter.WithConfig(cfg),
		tablewriter.WithHeader(headers),
		tablewriter.WithRenderer(renderer.NewBlueprint()),
		tablewriter.WithRendition(tw.Rendition{
			Symbols: tw.NewSymbols(tw.StyleMarkdown),
			Borders: tw.Border{
				Left:   tw.On,
				Top:    tw.Off,
				Right:  tw.On,
				Bottom: tw.Off,
			},
		}),
		tablewriter.WithRowAutoWrap(tw.WrapNone),
	)
}
