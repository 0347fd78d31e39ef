package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"dosadelight/internal/admin"
	"dosadelight/internal/cart"
	"dosadelight/internal/checkout"
	"dosadelight/internal/model"
)

// itemFlags collects repeated -item id:name:price[:quantity] values.
type itemFlags []model.CartItem

func (f *itemFlags) String() string {
	return fmt.Sprintf("%d items", len(*f))
}

func (f *itemFlags) Set(v string) error {
	item, err := parseItem(v)
	if err != nil {
		return err
	}
	*f = append(*f, item)
	return nil
}

// parseItem reads id:name:price with an optional :quantity suffix.
func parseItem(v string) (model.CartItem, error) {
	parts := strings.Split(v, ":")
	if len(parts) < 3 || len(parts) > 4 {
		return model.CartItem{}, fmt.Errorf("item %q must be id:name:price[:quantity]", v)
	}

	item := model.CartItem{ID: parts[0], Name: parts[1], Price: parts[2], Quantity: 1}
	if len(parts) == 4 {
		q, err := strconv.Atoi(parts[3])
		if err != nil {
			return model.CartItem{}, fmt.Errorf("item %q has invalid quantity: %w", v, err)
		}
		item.Quantity = q
	}
	if item.ID == "" {
		return model.CartItem{}, fmt.Errorf("item %q has no id", v)
	}
	return item, nil
}

func (e *env) order(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("order", flag.ContinueOnError)
	fs.SetOutput(e.out)

	var items itemFlags
	var details model.CustomerDetails
	fs.Var(&items, "item", "cart item as id:name:price[:quantity], repeatable")
	fs.StringVar(&details.Name, "name", "", "customer name")
	fs.StringVar(&details.Email, "email", "", "customer email")
	fs.StringVar(&details.Phone, "phone", "", "customer phone")
	fs.StringVar(&details.Address, "address", "", "delivery address")
	fs.StringVar(&details.Notes, "notes", "", "order notes")
	if err := fs.Parse(args); err != nil {
		return err
	}

	c := cart.New()
	// Repeated ids accumulate like repeated taps on "Add to cart".
	for _, item := range items {
		quantity := c.Quantity(item.ID) + item.Quantity
		c.Add(item)
		c.UpdateQuantity(item.ID, quantity)
	}

	pending := checkout.NewPendingQueue(e.cfg.PendingFile)
	co := checkout.New(c, e.client, pending, e.cfg.ConfirmationDuration, e.logger)

	total := c.TotalPrice()
	result, err := co.Submit(ctx, details)
	if err != nil {
		var hard *checkout.HardFailure
		if errors.As(err, &hard) {
			return fmt.Errorf("failed to submit order, please try again or call us directly at %s", hard.Phone)
		}
		return err
	}

	if result.Local {
		fmt.Fprintf(e.out, "Order %s saved locally to %s; run `dosactl replay` once the service is back.\n", result.OrderID, pending.Path())
		return nil
	}

	fmt.Fprintf(e.out, "Order placed: %s (total ₹%s)\n", result.OrderID, total.StringFixed(2))
	return nil
}

func (e *env) contact(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("contact", flag.ContinueOnError)
	fs.SetOutput(e.out)

	var msg model.Contact
	fs.StringVar(&msg.Name, "name", "", "your name")
	fs.StringVar(&msg.Email, "email", "", "your email")
	fs.StringVar(&msg.Phone, "phone", "", "your phone (optional)")
	fs.StringVar(&msg.Message, "message", "", "message text")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if err := e.client.SubmitContact(ctx, msg); err != nil {
		return err
	}

	fmt.Fprintln(e.out, "Contact form submitted successfully")
	return nil
}

func (e *env) contacts(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("contacts", flag.ContinueOnError)
	fs.SetOutput(e.out)

	sortField := fs.String("sort", string(admin.SortByDate), "sort field: name, email or date")
	direction := fs.String("order", string(admin.Descending), "sort order: asc or desc")
	dismiss := fs.String("dismiss", "", "comma-separated ids to hide from this listing")
	xlsxPath := fs.String("xlsx", "", "also export the listing to this spreadsheet file")
	if err := fs.Parse(args); err != nil {
		return err
	}

	field, err := admin.ParseSortField(*sortField)
	if err != nil {
		return err
	}
	dir := admin.Direction(*direction)
	if dir != admin.Ascending && dir != admin.Descending {
		return fmt.Errorf("unknown sort order %q (must be asc or desc)", *direction)
	}

	d := admin.NewDashboard(e.client, e.logger)
	if err := d.Load(ctx); err != nil {
		return err
	}

	if current, _ := d.Order(); current != field {
		d.Sort(field)
	}
	if _, current := d.Order(); current != dir {
		d.Sort(field)
	}

	for _, id := range strings.Split(*dismiss, ",") {
		if id = strings.TrimSpace(id); id != "" {
			d.Dismiss(id)
		}
	}

	if status, _ := d.Status(); status == admin.Empty {
		fmt.Fprintln(e.out, "No submissions yet.")
	} else {
		tw := tabwriter.NewWriter(e.out, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "ID\tNAME\tEMAIL\tPHONE\tDATE\tMESSAGE")
		for _, c := range d.Rows() {
			phone := c.Phone
			if phone == "" {
				phone = "N/A"
			}
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n", c.ID, c.Name, c.Email, phone, c.Date, c.Message)
		}
		if err := tw.Flush(); err != nil {
			return err
		}
	}

	if *xlsxPath == "" {
		return nil
	}

	f, err := os.Create(*xlsxPath)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", *xlsxPath, err)
	}
	if err := d.ExportXLSX(f); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", *xlsxPath, err)
	}

	fmt.Fprintf(e.out, "Exported to %s\n", *xlsxPath)
	return nil
}

func (e *env) orders(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("orders", flag.ContinueOnError)
	fs.SetOutput(e.out)
	if err := fs.Parse(args); err != nil {
		return err
	}

	orders, err := e.client.ListOrders(ctx)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(e.out)
	enc.SetIndent("", "  ")
	return enc.Encode(orders)
}

func (e *env) replay(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("replay", flag.ContinueOnError)
	fs.SetOutput(e.out)
	maxElapsed := fs.Duration("max-elapsed", 30*time.Second, "how long to keep retrying each order")
	if err := fs.Parse(args); err != nil {
		return err
	}

	pending := checkout.NewPendingQueue(e.cfg.PendingFile)
	report, err := checkout.NewReplayer(e.client, pending, *maxElapsed, e.logger).Replay(ctx)

	fmt.Fprintf(e.out, "Delivered %d pending orders, %d remaining\n", len(report.Delivered), report.Remaining)
	return err
}
