package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/opalaxis/beamsolopex-companion/internal/draftfile"
	"github.com/opalaxis/beamsolopex-companion/internal/export"
	"github.com/opalaxis/beamsolopex-companion/internal/receipts"
	"github.com/opalaxis/beamsolopex-companion/internal/receipts/form"
	"github.com/opalaxis/beamsolopex-companion/internal/receipts/listing"
	"github.com/opalaxis/beamsolopex-companion/pkg/models"
	"github.com/spf13/cobra"
)

func newReceiptsCommand(opts *rootOptions) *cobra.Command {
	receiptsCmd := &cobra.Command{
		Use:     "receipts",
		Aliases: []string{"receipt"},
		Short:   "List, inspect and edit asset receipts",
	}
	receiptsCmd.AddCommand(
		newReceiptsListCommand(opts),
		newReceiptsShowCommand(opts),
		newReceiptsDraftCommand(opts),
		newReceiptsCreateCommand(opts),
		newReceiptsEditCommand(opts),
		newReceiptsDeleteCommand(opts),
		newReceiptsHistoryCommand(opts),
	)
	return receiptsCmd
}

// printNotifier writes controller notifications: successes to out, errors to errOut.
func printNotifier(out, errOut io.Writer) receipts.Notifier {
	return receipts.NotifierFunc(func(level receipts.Level, message string) {
		if level == receipts.LevelError {
			fmt.Fprintln(errOut, message)
			return
		}
		fmt.Fprintln(out, message)
	})
}

func notifierFor(cmd *cobra.Command) receipts.Notifier {
	return printNotifier(cmd.OutOrStdout(), cmd.ErrOrStderr())
}

func parseID(arg string) (int, error) {
	id, err := strconv.Atoi(arg)
	if err != nil || id < 1 {
		return 0, fmt.Errorf("invalid receipt id %q", arg)
	}
	return id, nil
}

func newReceiptsListCommand(opts *rootOptions) *cobra.Command {
	var (
		search, asset, date, exportPath string
		page, pageSize                  int
	)

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List asset receipts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd.Context(), opts, func(a *app) error {
				ctrl, err := a.controller(cmd.Context(), notifierFor(cmd))
				if err != nil {
					return err
				}

				ctrl.Search(search)
				ctrl.FilterBy(listing.Filters{Asset: asset, Date: date})
				if cmd.Flags().Changed("page-size") {
					if err := ctrl.SetPageSize(pageSize); err != nil {
						return err
					}
				}
				ctrl.GoToPage(page)

				if exportPath != "" {
					filtered := ctrl.Filtered()
					if err := export.WriteFile(exportPath, filtered, ctrl.References()); err != nil {
						return err
					}
					fmt.Fprintf(cmd.OutOrStdout(), "Exported %d receipt(s) to %s\n", len(filtered), exportPath)
					return nil
				}

				printListing(cmd.OutOrStdout(), ctrl.Listing(), ctrl.References())
				return nil
			})
		},
	}
	listCmd.Flags().StringVarP(&search, "search", "s", "", "Match id, asset name, tag number or receiver")
	listCmd.Flags().StringVar(&asset, "asset", "", "Only receipts of this asset id")
	listCmd.Flags().StringVar(&date, "date", "", "Only receipts created on this date (YYYY-MM-DD)")
	listCmd.Flags().IntVarP(&page, "page", "p", 1, "Page number")
	listCmd.Flags().IntVar(&pageSize, "page-size", 0, "Rows per page (default list.page_size)")
	listCmd.Flags().StringVar(&exportPath, "export", "", "Write every matching receipt to this XLSX file instead of printing a page")
	return listCmd
}

func printListing(out io.Writer, page listing.Page[models.AssetReceipt], refs receipts.References) {
	if page.TotalItems == 0 {
		fmt.Fprintln(out, "No asset receipts found")
		return
	}

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tDATE\tASSET\tQTY\tRECEIVED BY")
	for _, r := range page.Items {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%d\t%s\n", r.ID, r.DisplayDate(), refs.AssetName(r.AssetID), r.TotalQuantity(), r.ReceivedBy)
	}
	_ = tw.Flush()
	fmt.Fprintf(out, "Showing %d to %d of %d results (page %d of %d)\n",
		page.From, page.To, page.TotalItems, page.Number, page.TotalPages)
}

func newReceiptsShowCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "show ID",
		Short: "Show one asset receipt",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return withApp(cmd.Context(), opts, func(a *app) error {
				ctrl, err := a.controller(cmd.Context(), notifierFor(cmd))
				if err != nil {
					return err
				}
				r, err := ctrl.Find(id)
				if err != nil {
					return err
				}
				if err := ctrl.StartView(r); err != nil {
					return err
				}
				printSummary(cmd.OutOrStdout(), receipts.Summarize(r, ctrl.References()))
				return nil
			})
		},
	}
}

func printSummary(out io.Writer, s receipts.Summary) {
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "Receipt\t#%d\n", s.ID)
	fmt.Fprintf(tw, "Asset\t%s\n", s.Asset)
	fmt.Fprintf(tw, "Receipt date\t%s\n", s.ReceiptDate)
	fmt.Fprintf(tw, "Received by\t%s\n", s.ReceivedBy)
	if s.Remarks != "" {
		fmt.Fprintf(tw, "Remarks\t%s\n", s.Remarks)
	}
	fmt.Fprintf(tw, "Total quantity\t%d\n", s.TotalQuantity)
	if s.TotalValue.Valid {
		fmt.Fprintf(tw, "Value\t%s x %d = %s %s\n",
			s.UnitCost.Decimal.StringFixed(2), s.TotalQuantity, s.TotalValue.Decimal.StringFixed(2), s.Currency)
	}
	_ = tw.Flush()

	for i, line := range s.Locations {
		fmt.Fprintf(out, "\nLocation %d: %s (qty %d)\n", i+1, line.Location, line.Quantity)
		tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
		optional := []struct{ label, value string }{
			{"Licence plate", line.LicencePlate},
			{"Manufacture date", line.ManufactureDate},
			{"Condition", line.Condition},
			{"Operational status", line.OperationalStatus},
			{"Serial numbers", strings.Join(line.SerialNumbers, ", ")},
			{"Tag numbers", strings.Join(line.TagNumbers, ", ")},
			{"Remarks", line.Remarks},
		}
		for _, f := range optional {
			if f.value != "" {
				fmt.Fprintf(tw, "  %s\t%s\n", f.label, f.value)
			}
		}
		_ = tw.Flush()
	}
}

func newReceiptsDraftCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "draft [ID]",
		Short: "Print an empty draft, or the draft of an existing receipt, as YAML",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return draftfile.Encode(cmd.OutOrStdout(), form.New())
			}
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return withApp(cmd.Context(), opts, func(a *app) error {
				ctrl, err := a.controller(cmd.Context(), notifierFor(cmd))
				if err != nil {
					return err
				}
				r, err := ctrl.Find(id)
				if err != nil {
					return err
				}
				return draftfile.Encode(cmd.OutOrStdout(), form.FromRecord(r))
			})
		},
	}
}

func readDraft(path string) (draftfile.Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return draftfile.Document{}, err
	}
	defer f.Close()
	return draftfile.Decode(f)
}

// submitDraft applies the document to the controller's draft and submits it.
// Field errors are printed one per line.
func submitDraft(cmd *cobra.Command, ctrl *receipts.Controller, doc draftfile.Document) error {
	if err := ctrl.Edit(func(e *form.Editor) error { return draftfile.Apply(e, doc) }); err != nil {
		return err
	}

	err := ctrl.Submit(cmd.Context())
	var invalid *receipts.ValidationError
	if errors.As(err, &invalid) {
		for _, key := range invalid.Errors.Keys() {
			fmt.Fprintf(cmd.ErrOrStderr(), "  %s: %s\n", key, invalid.Errors[key])
		}
	}
	return err
}

func newReceiptsCreateCommand(opts *rootOptions) *cobra.Command {
	var file string

	createCmd := &cobra.Command{
		Use:   "create",
		Short: "Create an asset receipt from a draft file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			doc, err := readDraft(file)
			if err != nil {
				return err
			}
			return withApp(cmd.Context(), opts, func(a *app) error {
				ctrl, err := a.controller(cmd.Context(), notifierFor(cmd))
				if err != nil {
					return err
				}
				if err := ctrl.StartCreate(); err != nil {
					return err
				}
				return submitDraft(cmd, ctrl, doc)
			})
		},
	}
	createCmd.Flags().StringVarP(&file, "file", "f", "", "Draft YAML file")
	_ = createCmd.MarkFlagRequired("file")
	return createCmd
}

func newReceiptsEditCommand(opts *rootOptions) *cobra.Command {
	var file string

	editCmd := &cobra.Command{
		Use:   "edit ID",
		Short: "Replace an asset receipt with the contents of a draft file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			doc, err := readDraft(file)
			if err != nil {
				return err
			}
			return withApp(cmd.Context(), opts, func(a *app) error {
				ctrl, err := a.controller(cmd.Context(), notifierFor(cmd))
				if err != nil {
					return err
				}
				r, err := ctrl.Find(id)
				if err != nil {
					return err
				}
				if err := ctrl.StartEdit(r); err != nil {
					return err
				}
				return submitDraft(cmd, ctrl, doc)
			})
		},
	}
	editCmd.Flags().StringVarP(&file, "file", "f", "", "Draft YAML file")
	_ = editCmd.MarkFlagRequired("file")
	return editCmd
}

func newReceiptsDeleteCommand(opts *rootOptions) *cobra.Command {
	var yes bool

	deleteCmd := &cobra.Command{
		Use:   "delete ID",
		Short: "Delete an asset receipt",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return withApp(cmd.Context(), opts, func(a *app) error {
				ctrl, err := a.controller(cmd.Context(), notifierFor(cmd))
				if err != nil {
					return err
				}
				r, err := ctrl.Find(id)
				if err != nil {
					return err
				}
				if err := ctrl.RequestDelete(r); err != nil {
					return err
				}

				if !yes {
					fmt.Fprintf(cmd.ErrOrStderr(), "Delete asset receipt #%d (%s)? [y/N] ", r.ID, ctrl.AssetName(r.AssetID))
					answer, err := readLine(cmd.InOrStdin())
					if err != nil {
						return err
					}
					if reply := strings.ToLower(strings.TrimSpace(answer)); reply != "y" && reply != "yes" {
						ctrl.CancelDelete()
						fmt.Fprintln(cmd.OutOrStdout(), "Cancelled")
						return nil
					}
				}
				return ctrl.ConfirmDelete(cmd.Context())
			})
		},
	}
	deleteCmd.Flags().BoolVarP(&yes, "yes", "y", false, "Do not ask for confirmation")
	return deleteCmd
}

func newReceiptsHistoryCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "history ID",
		Short: "Show the recorded changes of an asset receipt",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return withApp(cmd.Context(), opts, func(a *app) error {
				if err := a.requireSession(); err != nil {
					return err
				}
				entries, err := a.backend.Receipts.History(cmd.Context(), id)
				if err != nil {
					return err
				}
				if len(entries) == 0 {
					fmt.Fprintf(cmd.OutOrStdout(), "No recorded changes for asset receipt #%d\n", id)
					return nil
				}

				tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
				fmt.Fprintln(tw, "WHEN\tACTION\tUSER")
				for _, e := range entries {
					user := "-"
					if e.UserID != nil {
						user = strconv.Itoa(*e.UserID)
					}
					fmt.Fprintf(tw, "%s\t%s\t%s\n", e.CreatedAt.Format("2006-01-02 15:04:05"), e.Action, user)
				}
				return tw.Flush()
			})
		},
	}
}
