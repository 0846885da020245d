package commands

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/glamour"
	"github.com/hay-kot/neighborly/internal/core/catalog"
	"github.com/hay-kot/neighborly/internal/core/config"
	"github.com/hay-kot/neighborly/internal/core/currency"
	"github.com/hay-kot/neighborly/internal/storefront"
	"github.com/hay-kot/neighborly/pkg/tmpl"
	"github.com/urfave/cli/v3"
	"golang.org/x/term"
)

// defaultProductTemplate is used when display.product_template is unset.
const defaultProductTemplate = `# {{ md .Title }}

{{ if .Category }}**{{ md .Category }}** · {{ end }}sold by {{ md .Seller }}

{{ if .Rating }}{{ stars .Rating }} {{ printf "%.1f" .Rating }} ({{ .ReviewCount }} reviews) · {{ end }}{{ .Sold }} sold

## {{ .Price }}{{ if ne .LocalPrice .Price }} ({{ .LocalPrice }}){{ end }}

{{ if .FreeShipping }}- Free shipping
{{ end }}- {{ .Stock }} in stock

{{ md .Description }}
`

type ViewCmd struct {
	flags *Flags

	// Command-specific flags
	raw bool
}

// NewViewCmd creates a new view command
func NewViewCmd(flags *Flags) *ViewCmd {
	return &ViewCmd{flags: flags}
}

// Register adds the view command to the application
func (cmd *ViewCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "view",
		Usage:     "Show a product and record the view in your history",
		UsageText: "neighborly view [options] ID",
		Description: `Shows product details and records the product in your recently viewed
list, which feeds the "viewed" and "similar" recommendations.

Output is rendered markdown on a terminal. The template can be replaced with
display.product_template in the config file.`,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "raw",
				Usage:       "print the markdown without rendering it",
				Destination: &cmd.raw,
			},
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *ViewCmd) run(ctx context.Context, c *cli.Command) error {
	if c.Args().Len() != 1 {
		return fmt.Errorf("expected exactly one product id")
	}

	product, err := cmd.flags.Service.View(ctx, c.Args().First())
	if err != nil {
		return err
	}

	markdown, err := renderProduct(cmd.flags.Service, product, cmd.template())
	if err != nil {
		return err
	}

	out := c.Root().Writer
	if cmd.raw || !isTerminal(out) {
		_, err = io.WriteString(out, markdown)
		return err
	}

	renderer, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle("tokyo-night"),
		glamour.WithWordWrap(terminalWidth()),
	)
	if err != nil {
		return fmt.Errorf("create markdown renderer: %w", err)
	}

	rendered, err := renderer.Render(markdown)
	if err != nil {
		return fmt.Errorf("render markdown: %w", err)
	}

	_, err = io.WriteString(out, rendered)
	return err
}

func (cmd *ViewCmd) template() string {
	if cmd.flags.Config != nil && cmd.flags.Config.Display.ProductTemplate != "" {
		return cmd.flags.Config.Display.ProductTemplate
	}
	return defaultProductTemplate
}

// renderProduct executes the product template for p.
func renderProduct(svc *storefront.Service, p catalog.Product, text string) (string, error) {
	listing := p.Currency
	if listing == "" {
		listing = currency.USD
	}
	user := svc.UserCurrency()

	data := config.ProductTemplateData{
		ID:           p.ID,
		Title:        p.DisplayName(),
		Description:  p.Description,
		Category:     p.Category,
		Seller:       p.Seller,
		Image:        p.Image,
		Price:        svc.Format(p.Price, listing),
		LocalPrice:   svc.Format(svc.Convert(p.Price, listing, user), user),
		Rating:       p.RatingOrZero(),
		ReviewCount:  p.ReviewCount,
		Sold:         p.Sold,
		Stock:        p.Stock,
		FreeShipping: p.FreeShipping,
	}

	out, err := tmpl.Render(text, data)
	if err != nil {
		return "", fmt.Errorf("render product template: %w", err)
	}
	return out, nil
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// terminalWidth returns the stdout width, or 80 when it cannot be read.
func terminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return 80
	}
	return min(width, 120)
}
