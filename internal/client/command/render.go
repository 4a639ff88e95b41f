package command

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/dustin/go-humanize"
	"golang.org/x/term"
	"gopkg.in/yaml.v3"

	"github.com/avatarctic/cached-catalog/go/internal/client/catalog"
	"github.com/avatarctic/cached-catalog/go/internal/core/domain/product"
)

// view is a loaded catalog ready for any output format.
type view struct {
	headers []string
	rows    [][]string
	data    any
}

func productView(ps []product.Product) view {
	v := view{
		headers: []string{"ID", "SKU", "NAME", "CATEGORY", "PRICE", "STOCK", "ACTIVE", "IN STOCK"},
		data:    ps,
	}
	for _, p := range ps {
		category := "-"
		if p.Category != nil {
			category = p.Category.Name
		}
		v.rows = append(v.rows, []string{
			strconv.Itoa(p.ID),
			p.SKU,
			p.Name,
			category,
			formatPrice(p.Price),
			humanize.Comma(int64(p.Stock)),
			strconv.FormatBool(p.IsActive),
			yesNo(p.InStock()),
		})
	}
	return v
}

func legacyView(ps []product.LegacyProduct) view {
	v := view{
		headers: []string{"ID", "NAME", "CATEGORY", "PRICE", "STOCK"},
		data:    ps,
	}
	for _, p := range ps {
		category := "-"
		if p.Category != nil {
			category = p.Category.Name
		}
		v.rows = append(v.rows, []string{
			strconv.Itoa(p.ID),
			p.Name,
			category,
			formatPrice(p.Price),
			humanize.Comma(int64(p.Stock)),
		})
	}
	return v
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func formatPrice(price float64) string {
	return "$" + humanize.FormatFloat("#,###.##", price)
}

// resolveFormat picks table output for terminals and json for pipes when the
// user did not ask for a format.
func resolveFormat(requested string, w io.Writer) string {
	if requested != "" {
		return requested
	}
	if isTerminal(w) {
		return "table"
	}
	return "json"
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func writeView(w io.Writer, format string, v view) error {
	switch format {
	case "json":
		b, err := json.MarshalIndent(v.data, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode json: %w", err)
		}
		_, err = fmt.Fprintln(w, string(b))
		return err
	case "yaml":
		// Round-trip through json so yaml keys match the wire names.
		b, err := json.Marshal(v.data)
		if err != nil {
			return fmt.Errorf("failed to encode yaml: %w", err)
		}
		var generic any
		if err := json.Unmarshal(b, &generic); err != nil {
			return fmt.Errorf("failed to encode yaml: %w", err)
		}
		out, err := yaml.Marshal(generic)
		if err != nil {
			return fmt.Errorf("failed to encode yaml: %w", err)
		}
		_, err = w.Write(out)
		return err
	case "table":
		writeTable(w, v, isTerminal(w))
		return nil
	default:
		return fmt.Errorf("unsupported output format %q", format)
	}
}

func writeTable(w io.Writer, v view, color bool) {
	if len(v.rows) == 0 {
		fmt.Fprintln(w, "no products")
		return
	}

	var (
		headerStyle = lipgloss.NewStyle().Bold(true).Align(lipgloss.Left)
		cellStyle   = lipgloss.NewStyle().PaddingRight(2).Align(lipgloss.Left)
		oddRowStyle = cellStyle
	)
	if color {
		headerStyle = headerStyle.Foreground(lipgloss.Color("#f6be00"))
		oddRowStyle = oddRowStyle.Foreground(lipgloss.Color("#00c8f0"))
	}

	t := table.New().
		BorderTop(false).
		BorderBottom(false).
		BorderLeft(false).
		BorderRight(false).
		BorderHeader(false).
		BorderColumn(false).
		Border(lipgloss.HiddenBorder()).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle.PaddingRight(2)
			case row%2 == 1:
				return oddRowStyle
			default:
				return cellStyle
			}
		}).
		Headers(v.headers...).
		Rows(v.rows...)
	fmt.Fprintln(w, t)
}

// writeStatus reports where a result came from and how old it is. Stale
// results also carry the fetch failure that forced the fallback.
func writeStatus[T any](w io.Writer, res *catalog.Result[T]) {
	fmt.Fprintf(w, "source: %s, fetched %s\n", res.Origin, humanize.Time(time.Now().Add(-res.Age)))
	if res.Stale() {
		fmt.Fprintf(w, "warning: %s\n", res.Warning)
	}
}
