package cli

import (
	"freshguard/internal/form"
	"freshguard/internal/model"
	"freshguard/internal/view"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

var recipeFlags = []struct {
	flag  string
	field string
}{
	{"name", "name"},
	{"description", "description"},
	{"instructions", "instructions"},
	{"servings", "servings"},
	{"prep-time", "prepTimeMinutes"},
	{"created-at", "createdAt"},
	{"ingredients", "ingredients"},
}

func addRecipeFlags(flags *pflag.FlagSet) {
	flags.String("name", "", "recipe name")
	flags.String("description", "", "short description")
	flags.String("instructions", "", "preparation steps")
	flags.Int("servings", 0, "number of servings")
	flags.Int("prep-time", 0, "preparation time in minutes")
	flags.String("created-at", "", "creation time (YYYY-MM-DDTHH:MM:SS.sss); defaults to now")
	flags.String("ingredients", "", "comma-separated item ids")
}

func applyRecipeFlags(flags *pflag.FlagSet, f *form.RecipeForm) error {
	for _, m := range recipeFlags {
		if !flags.Changed(m.flag) {
			continue
		}
		if err := f.Set(m.field, flags.Lookup(m.flag).Value.String()); err != nil {
			return err
		}
	}
	return nil
}

func recipePatch(flags *pflag.FlagSet) (model.RecipePatch, error) {
	var patch model.RecipePatch
	for _, s := range []struct {
		flag string
		dst  **string
	}{
		{"name", &patch.Name},
		{"description", &patch.Description},
		{"instructions", &patch.Instructions},
	} {
		if flags.Changed(s.flag) {
			v, _ := flags.GetString(s.flag)
			*s.dst = &v
		}
	}
	if flags.Changed("servings") {
		v, _ := flags.GetInt("servings")
		patch.Servings = &v
	}
	if flags.Changed("prep-time") {
		v, _ := flags.GetInt("prep-time")
		patch.PrepTimeMinutes = &v
	}
	if flags.Changed("ingredients") {
		v, _ := flags.GetString("ingredients")
		ids, err := form.ParseIDs(v)
		if err != nil {
			return model.RecipePatch{}, err
		}
		patch.Ingredients = make([]model.Item, 0, len(ids))
		for _, id := range ids {
			patch.Ingredients = append(patch.Ingredients, model.Item{ID: id})
		}
	}
	return patch, nil
}

func newRecipesCommand(app *App) *cobra.Command {
	var search string

	cmd := &cobra.Command{
		Use:     "recipes",
		Aliases: []string{"recipe"},
		Short:   "List recipes, newest first",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.Pages.Recipes(cmd.Context(), cmd.OutOrStdout(), search)
		},
	}
	cmd.Flags().StringVarP(&search, "search", "s", "", "only show recipes whose name, description or ingredients contain this text")

	cmd.AddCommand(
		newRecipeShowCommand(app),
		newRecipeAddCommand(app),
		newRecipeEditCommand(app),
		newRecipePatchCommand(app),
		newRecipeDeleteCommand(app),
		newRecipeFindCommand(app),
		newIngredientsCommand(app),
	)
	return cmd
}

func newRecipeShowCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show one recipe",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			recipe, err := app.Recipes.Get(cmd.Context(), id)
			if err != nil {
				return fromStore(app.Recipes, err)
			}
			return view.RecipeCard(cmd.OutOrStdout(), recipe, false)
		},
	}
}

func newRecipeAddCommand(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a recipe",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f := form.NewRecipeForm(app.Recipes, nil)
			if err := applyRecipeFlags(cmd.Flags(), f); err != nil {
				return err
			}
			saved, err := f.Submit(cmd.Context())
			if err != nil {
				return fromStore(app.Recipes, err)
			}
			return view.RecipeCard(cmd.OutOrStdout(), saved, false)
		},
	}
	addRecipeFlags(cmd.Flags())
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func newRecipeEditCommand(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Replace a recipe, keeping the fields not given as flags",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			recipe, err := app.Recipes.Get(cmd.Context(), id)
			if err != nil {
				return fromStore(app.Recipes, err)
			}

			f := form.NewRecipeForm(app.Recipes, &recipe)
			if err := applyRecipeFlags(cmd.Flags(), f); err != nil {
				return err
			}
			saved, err := f.Submit(cmd.Context())
			if err != nil {
				return fromStore(app.Recipes, err)
			}
			return view.RecipeCard(cmd.OutOrStdout(), saved, false)
		},
	}
	addRecipeFlags(cmd.Flags())
	return cmd
}

func newRecipePatchCommand(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "patch <id>",
		Short: "Update only the fields given as flags",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			patch, err := recipePatch(cmd.Flags())
			if err != nil {
				return err
			}
			saved, err := app.Recipes.Patch(cmd.Context(), id, patch)
			if err != nil {
				return fromStore(app.Recipes, err)
			}
			return view.RecipeCard(cmd.OutOrStdout(), saved, false)
		},
	}
	addRecipeFlags(cmd.Flags())
	return cmd
}

func newRecipeDeleteCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "delete <id>",
		Aliases: []string{"rm"},
		Short:   "Delete a recipe",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			f := form.NewRecipeForm(app.Recipes, &model.Recipe{ID: id})
			if err := f.Delete(cmd.Context()); err != nil {
				return fromStore(app.Recipes, err)
			}
			return printf(cmd.OutOrStdout(), "Deleted recipe #%d\n", id)
		},
	}
}

func newRecipeFindCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "find <item-id>...",
		Short: "Find recipes using any of the given items",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ids := make([]int64, 0, len(args))
			for _, arg := range args {
				id, err := parseID(arg)
				if err != nil {
					return err
				}
				ids = append(ids, id)
			}

			recipes, err := app.Recipes.FindByIngredients(cmd.Context(), ids)
			if err != nil {
				return fromStore(app.Recipes, err)
			}

			out := cmd.OutOrStdout()
			if len(recipes) == 0 {
				return printf(out, "No recipes found\n")
			}
			for i, recipe := range recipes {
				if i > 0 {
					if err := printf(out, "\n"); err != nil {
						return err
					}
				}
				if err := view.RecipeCard(out, recipe, false); err != nil {
					return err
				}
			}
			return nil
		},
	}
}

func newIngredientsCommand(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ingredients",
		Short: "Link items to a recipe",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "add <recipe-id> <item-id>",
			Short: "Add an item to a recipe",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				recipeID, itemID, err := parseIDPair(args)
				if err != nil {
					return err
				}
				recipe, err := app.Recipes.AddIngredient(cmd.Context(), recipeID, itemID)
				if err != nil {
					return fromStore(app.Recipes, err)
				}
				return view.RecipeCard(cmd.OutOrStdout(), recipe, false)
			},
		},
		&cobra.Command{
			Use:   "remove <recipe-id> <item-id>",
			Short: "Remove an item from a recipe",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				recipeID, itemID, err := parseIDPair(args)
				if err != nil {
					return err
				}
				recipe, err := app.Recipes.RemoveIngredient(cmd.Context(), recipeID, itemID)
				if err != nil {
					return fromStore(app.Recipes, err)
				}
				return view.RecipeCard(cmd.OutOrStdout(), recipe, false)
			},
		},
		&cobra.Command{
			Use:   "set <recipe-id> [item-id]...",
			Short: "Replace the ingredients of a recipe",
			Args:  cobra.MinimumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				recipeID, err := parseID(args[0])
				if err != nil {
					return err
				}
				itemIDs := make([]int64, 0, len(args)-1)
				for _, arg := range args[1:] {
					id, err := parseID(arg)
					if err != nil {
						return err
					}
					itemIDs = append(itemIDs, id)
				}
				recipe, err := app.Recipes.SetIngredients(cmd.Context(), recipeID, itemIDs)
				if err != nil {
					return fromStore(app.Recipes, err)
				}
				return view.RecipeCard(cmd.OutOrStdout(), recipe, false)
			},
		},
	)
	return cmd
}

func parseIDPair(args []string) (int64, int64, error) {
	first, err := parseID(args[0])
	if err != nil {
		return 0, 0, err
	}
	second, err := parseID(args[1])
	if err != nil {
		return 0, 0, err
	}
	return first, second, nil
}
