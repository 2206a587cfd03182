package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/chzyer/readline"

	"github.com/kashif-khokhar/stockflow/internal/core/domain"
	"github.com/kashif-khokhar/stockflow/internal/core/service"
)

const shellPrompt = "\033[1;36mstockflow>\033[0m "

// CLI is the interactive session over the inventory service. It is the
// only caller of the core's mutation operations and owns the
// confirmation prompts for destructive ones.
type CLI struct {
	svc      *service.InventoryService
	readline *readline.Instance
}

func NewCLI(svc *service.InventoryService) (*CLI, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		homeDir = "."
	}

	rl, err := readline.NewEx(&readline.Config{
		Prompt:            shellPrompt,
		HistoryFile:       filepath.Join(homeDir, ".stockflow_history"),
		InterruptPrompt:   "^C",
		EOFPrompt:         "exit",
		HistorySearchFold: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize readline: %v", err)
	}

	return &CLI{svc: svc, readline: rl}, nil
}

func (c *CLI) Close() {
	c.readline.Close()
}

// Run starts the shell loop.
func (c *CLI) Run(ctx context.Context) error {
	settings := c.svc.Settings()
	fmt.Printf("%s — inventory ledger (%s)\n", settings.OrgName, settings.AdminName)
	fmt.Println("Type 'help' for commands, 'exit' to quit.")

	for {
		line, err := c.readline.Readline()
		if err != nil {
			if err == io.EOF || err == readline.ErrInterrupt {
				return nil
			}
			return err
		}

		input := strings.TrimSpace(line)
		if input == "" {
			continue
		}

		fields := strings.Fields(input)
		cmd, args := strings.ToLower(fields[0]), fields[1:]

		if cmd == "exit" || cmd == "quit" {
			return nil
		}

		if err := c.dispatch(ctx, cmd, args); err != nil {
			fmt.Fprintf(os.Stderr, "\033[1;31mError:\033[0m %v\n", err)
		}
	}
}

func (c *CLI) dispatch(ctx context.Context, cmd string, args []string) error {
	switch cmd {
	case "help":
		c.printHelp()
		return nil
	case "list":
		return c.list(args)
	case "search":
		return c.search(args)
	case "add":
		return c.add(ctx)
	case "update":
		return c.update(ctx, args)
	case "delete":
		return c.delete(ctx, args)
	case "stats":
		return c.stats()
	case "alerts":
		return c.alerts()
	case "settings":
		return c.showSettings()
	case "set":
		return c.set(ctx, args)
	case "export":
		return c.export(args)
	case "import":
		return c.importFile(ctx, args)
	case "purge":
		return c.purge(ctx)
	}
	return fmt.Errorf("unknown command %q, try 'help'", cmd)
}

func (c *CLI) printHelp() {
	fmt.Print(`Commands:
  list [low]         show all records, newest first ('low' = below threshold only)
  search <query>     match records by name or SKU id
  add                record a new SKU (prompts for fields)
  update <id>        edit a record (blank answer keeps the current value)
  delete <id>        remove a record
  stats              totals, valuation and top categories
  alerts             low-stock notifications
  settings           show the active configuration
  set <field> <val>  change admin|org|currency|threshold
  export [path]      write a backup document (default stockflow_export.json)
  import <path>      restore from a backup document
  purge              wipe all inventory records (settings survive)
  exit               quit
`)
}

func (c *CLI) list(args []string) error {
	if len(args) > 0 && strings.ToLower(args[0]) == "low" {
		c.printTable(c.svc.LowStock())
		return nil
	}
	c.printTable(c.svc.List())
	return nil
}

func (c *CLI) search(args []string) error {
	if len(args) == 0 {
		return errors.New("usage: search <query>")
	}
	c.printTable(c.svc.Search(strings.Join(args, " ")))
	return nil
}

func (c *CLI) printTable(records []domain.Record) {
	if len(records) == 0 {
		fmt.Println("No inventory records found.")
		return
	}
	currency := c.svc.Settings().CurrencyLabel
	fmt.Printf("%-14s %-24s %8s %14s %16s  %s\n", "SKU", "DESCRIPTION", "UNITS", "UNIT PRICE", "VALUATION", "STATUS")
	// Newest first, like the original dashboard.
	for i := len(records) - 1; i >= 0; i-- {
		r := records[i]
		fmt.Printf("%-14s %-24s %8d %14s %16s  %s\n",
			r.ID, r.Name, r.Quantity,
			currency+" "+r.UnitPrice.String(),
			currency+" "+r.Valuation.String(),
			r.Status)
	}
}

func (c *CLI) add(ctx context.Context) error {
	name, err := c.ask("Item name: ")
	if err != nil {
		return err
	}
	qty, err := c.ask("Quantity: ")
	if err != nil {
		return err
	}
	price, err := c.ask(fmt.Sprintf("Unit price (%s): ", c.svc.Settings().CurrencyLabel))
	if err != nil {
		return err
	}
	status, err := c.ask("Status [In Stock/On Order] (default In Stock): ")
	if err != nil {
		return err
	}

	rec, err := c.svc.Create(ctx, service.CreateInput{
		Name:      name,
		Quantity:  qty,
		UnitPrice: price,
		Status:    status,
	})
	if err != nil {
		return err
	}
	fmt.Printf("%s added as %s (valuation %s %s)\n", rec.Name, rec.ID, rec.Valuation.String(), c.svc.Settings().CurrencyLabel)
	return nil
}

func (c *CLI) update(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errors.New("usage: update <id>")
	}

	var patch service.Patch
	if v, err := c.askOptional("New name: "); err != nil {
		return err
	} else if v != nil {
		patch.Name = v
	}
	if v, err := c.askOptional("New quantity: "); err != nil {
		return err
	} else if v != nil {
		patch.Quantity = v
	}
	if v, err := c.askOptional("New unit price: "); err != nil {
		return err
	} else if v != nil {
		patch.UnitPrice = v
	}
	if v, err := c.askOptional("New status: "); err != nil {
		return err
	} else if v != nil {
		patch.Status = v
	}

	rec, err := c.svc.Update(ctx, args[0], patch)
	if err != nil {
		return err
	}
	fmt.Printf("%s updated (valuation %s %s)\n", rec.ID, rec.Valuation.String(), c.svc.Settings().CurrencyLabel)
	return nil
}

func (c *CLI) delete(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errors.New("usage: delete <id>")
	}
	if !c.confirm(fmt.Sprintf("Delete %s? This cannot be undone", args[0])) {
		fmt.Println("Cancelled.")
		return nil
	}
	if err := c.svc.Delete(ctx, args[0]); err != nil {
		return err
	}
	fmt.Println("Item removed from record.")
	return nil
}

func (c *CLI) stats() error {
	stats := c.svc.Stats()
	currency := c.svc.Settings().CurrencyLabel

	fmt.Printf("Total inventory:   %d units\n", stats.TotalUnits)
	fmt.Printf("Global valuation:  %s %s\n", currency, stats.TotalValuation.String())
	fmt.Printf("Low stock alerts:  %d\n", stats.LowStockCount)

	if len(stats.TopCategories) == 0 {
		fmt.Println("No inventory data available for analytics.")
		return nil
	}
	fmt.Println("Top categories:")
	for _, cat := range stats.TopCategories {
		fmt.Printf("  %-24s %d units\n", cat.Name, cat.Units)
	}

	if recent := c.svc.Recent(4); len(recent) > 0 {
		fmt.Println("Recent drops:")
		for _, r := range recent {
			fmt.Printf("  %-24s %s  +%d\n", r.Name, r.ID, r.Quantity)
		}
	}
	return nil
}

func (c *CLI) alerts() error {
	alerts := c.svc.Alerts()
	if len(alerts) == 0 {
		fmt.Println("No new alerts.")
		return nil
	}
	for _, a := range alerts {
		fmt.Printf("[%s] %s\n", a.RecordID, a.Message)
	}
	return nil
}

func (c *CLI) showSettings() error {
	settings := c.svc.Settings()
	fmt.Printf("Admin:      %s\n", settings.AdminName)
	fmt.Printf("Org:        %s\n", settings.OrgName)
	fmt.Printf("Currency:   %s (supported: %s)\n", settings.CurrencyLabel, strings.Join(domain.SupportedCurrencies, ", "))
	fmt.Printf("Threshold:  %d units\n", settings.LowStockThreshold)
	return nil
}

func (c *CLI) set(ctx context.Context, args []string) error {
	if len(args) < 2 {
		return errors.New("usage: set admin|org|currency|threshold <value>")
	}
	settings := c.svc.Settings()
	value := strings.Join(args[1:], " ")

	switch strings.ToLower(args[0]) {
	case "admin":
		settings.AdminName = value
	case "org":
		settings.OrgName = value
	case "currency":
		settings.CurrencyLabel = strings.ToUpper(value)
	case "threshold":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("threshold must be a whole number: %q", value)
		}
		settings.LowStockThreshold = n
	default:
		return fmt.Errorf("unknown settings field %q", args[0])
	}

	if err := c.svc.UpdateSettings(ctx, settings); err != nil {
		return err
	}
	fmt.Println("Settings saved.")
	return nil
}

func (c *CLI) export(args []string) error {
	path := "stockflow_export.json"
	if len(args) > 0 {
		path = args[0]
	}
	data, err := c.svc.Export()
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write export: %w", err)
	}
	fmt.Printf("Catalog exported to %s\n", path)
	return nil
}

func (c *CLI) importFile(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errors.New("usage: import <path>")
	}
	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("read backup: %w", err)
	}
	if err := c.svc.Import(ctx, data); err != nil {
		return err
	}
	fmt.Printf("Restored %d records.\n", len(c.svc.List()))
	return nil
}

func (c *CLI) purge(ctx context.Context) error {
	if !c.confirm("CRITICAL: delete ALL inventory records? This cannot be undone") {
		fmt.Println("Cancelled.")
		return nil
	}
	if err := c.svc.Purge(ctx); err != nil {
		return err
	}
	fmt.Println("System purged. Settings kept.")
	return nil
}

func (c *CLI) ask(label string) (string, error) {
	c.readline.SetPrompt(label)
	defer c.readline.SetPrompt(shellPrompt)
	line, err := c.readline.Readline()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// askOptional returns nil when the user leaves the answer blank.
func (c *CLI) askOptional(label string) (*string, error) {
	answer, err := c.ask(label + "(blank to keep) ")
	if err != nil {
		return nil, err
	}
	if answer == "" {
		return nil, nil
	}
	return &answer, nil
}

func (c *CLI) confirm(question string) bool {
	answer, err := c.ask(question + " [y/N]: ")
	if err != nil {
		return false
	}
	return strings.EqualFold(answer, "y") || strings.EqualFold(answer, "yes")
}
