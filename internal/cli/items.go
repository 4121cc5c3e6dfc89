package cli

import (
	"fmt"

	"freshguard/internal/dates"
	"freshguard/internal/form"
	"freshguard/internal/model"
	"freshguard/internal/view"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// itemFlags maps flag names to item form fields.
var itemFlags = []struct {
	flag  string
	field string
}{
	{"name", "name"},
	{"category", "category"},
	{"quantity", "quantity"},
	{"location", "location"},
	{"purchased", "purchaseDate"},
	{"expires", "expirationDate"},
}

func addItemFlags(flags *pflag.FlagSet) {
	flags.String("name", "", "item name")
	flags.String("category", "", "item category")
	flags.Int("quantity", 0, "quantity on hand")
	flags.String("location", "", "storage location")
	flags.String("purchased", "", "purchase date (YYYY-MM-DD)")
	flags.String("expires", "", "expiration date (YYYY-MM-DD)")
}

// applyItemFlags copies the flags that were set into the form draft.
func applyItemFlags(flags *pflag.FlagSet, f *form.ItemForm) error {
	for _, m := range itemFlags {
		if !flags.Changed(m.flag) {
			continue
		}
		if err := f.Set(m.field, flags.Lookup(m.flag).Value.String()); err != nil {
			return err
		}
	}
	return nil
}

// itemPatch builds a patch from the flags that were set.
func itemPatch(flags *pflag.FlagSet) (model.ItemPatch, error) {
	var patch model.ItemPatch
	if flags.Changed("name") {
		v, _ := flags.GetString("name")
		patch.Name = &v
	}
	if flags.Changed("category") {
		v, _ := flags.GetString("category")
		patch.Category = &v
	}
	if flags.Changed("quantity") {
		v, _ := flags.GetInt("quantity")
		patch.Quantity = &v
	}
	if flags.Changed("location") {
		v, _ := flags.GetString("location")
		patch.Location = &v
	}
	for _, d := range []struct {
		flag string
		dst  *model.Date
	}{
		{"purchased", &patch.PurchaseDate},
		{"expires", &patch.ExpirationDate},
	} {
		if !flags.Changed(d.flag) {
			continue
		}
		v, _ := flags.GetString(d.flag)
		arr, err := dates.StringToArray(v)
		if err != nil {
			return model.ItemPatch{}, fmt.Errorf("--%s: %w", d.flag, err)
		}
		*d.dst = arr
	}
	return patch, nil
}

func newItemsCommand(app *App) *cobra.Command {
	var search string

	cmd := &cobra.Command{
		Use:     "items",
		Aliases: []string{"item"},
		Short:   "List the inventory, newest first",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.Pages.Items(cmd.Context(), cmd.OutOrStdout(), search)
		},
	}
	cmd.Flags().StringVarP(&search, "search", "s", "", "only show items whose name, category or location contains this text")

	cmd.AddCommand(
		newItemShowCommand(app),
		newItemAddCommand(app),
		newItemEditCommand(app),
		newItemPatchCommand(app),
		newItemDeleteCommand(app),
		newItemRecipesCommand(app),
		newItemImportCommand(app),
	)
	return cmd
}

func newItemShowCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show one item",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			item, err := app.Items.Get(cmd.Context(), id)
			if err != nil {
				return fromStore(app.Items, err)
			}
			return view.ItemCard(cmd.OutOrStdout(), item)
		},
	}
}

func newItemAddCommand(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add an item",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f := form.NewItemForm(app.Items, nil)
			if err := applyItemFlags(cmd.Flags(), f); err != nil {
				return err
			}
			saved, err := f.Submit(cmd.Context())
			if err != nil {
				return fromStore(app.Items, err)
			}
			return view.ItemCard(cmd.OutOrStdout(), saved)
		},
	}
	addItemFlags(cmd.Flags())
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func newItemEditCommand(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Replace an item, keeping the fields not given as flags",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			item, err := app.Items.Get(cmd.Context(), id)
			if err != nil {
				return fromStore(app.Items, err)
			}

			f := form.NewItemForm(app.Items, &item)
			if err := applyItemFlags(cmd.Flags(), f); err != nil {
				return err
			}
			saved, err := f.Submit(cmd.Context())
			if err != nil {
				return fromStore(app.Items, err)
			}
			return view.ItemCard(cmd.OutOrStdout(), saved)
		},
	}
	addItemFlags(cmd.Flags())
	return cmd
}

func newItemPatchCommand(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "patch <id>",
		Short: "Update only the fields given as flags",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			patch, err := itemPatch(cmd.Flags())
			if err != nil {
				return err
			}
			saved, err := app.Items.Patch(cmd.Context(), id, patch)
			if err != nil {
				return fromStore(app.Items, err)
			}
			return view.ItemCard(cmd.OutOrStdout(), saved)
		},
	}
	addItemFlags(cmd.Flags())
	return cmd
}

func newItemDeleteCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "delete <id>",
		Aliases: []string{"rm"},
		Short:   "Delete an item",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			f := form.NewItemForm(app.Items, &model.Item{ID: id})
			if err := f.Delete(cmd.Context()); err != nil {
				return fromStore(app.Items, err)
			}
			return printf(cmd.OutOrStdout(), "Deleted item #%d\n", id)
		},
	}
}

func newItemRecipesCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "recipes <id>",
		Short: "List the recipes that use an item",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return app.Pages.ItemRecipes(cmd.Context(), cmd.OutOrStdout(), id)
		},
	}
}

func newItemImportCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>...",
		Short: "Create items from JSON-lines seed files (plain or gzip)",
		Long: "Create items from JSON-lines seed files. Each line is an item draft such as\n" +
			`{"name":"Milk","quantity":1,"location":"Fridge","expirationDate":"2024-05-09"}` + "\n" +
			"Files are read from S3 first when S3_ENABLED is set.",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := app.Seeds.Import(cmd.Context(), args)
			if err != nil {
				return err
			}
			return printf(cmd.OutOrStdout(), "Imported %d of %d records from %d files (%d failed)\n",
				len(res.Created), res.Records, res.Files, res.Failed)
		},
	}
}
