package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vyrodovalexey/inventory-api/internal/model"
)

func newProductsCommand(g *globals) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "products",
		Aliases: []string{"product"},
		Short:   "Manage products",
	}

	cmd.AddCommand(
		newProductsListCommand(g),
		newProductsGetCommand(g),
		newProductsCreateCommand(g),
		newProductsUpdateCommand(g),
		newProductsDeleteCommand(g),
	)

	return cmd
}

func newProductsListCommand(g *globals) *cobra.Command {
	var types []string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List products, optionally filtered by type",
		Long: `List products. Repeat --type to select several types; without --type
every product is listed.

Examples:
  inventoryctl products list
  inventoryctl products list --type STANDARD --type discounted`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			products := g.client().Products()

			var (
				items []model.Product
				err   error
			)
			if cmd.Flags().Changed("type") {
				parsed, perr := parseProductTypes(types)
				if perr != nil {
					return perr
				}
				items, err = products.RetrieveProducts(cmd.Context(), parsed)
			} else {
				items, err = products.RetrieveAllProducts(cmd.Context())
			}
			if err != nil {
				return err
			}

			return printProducts(cmd, g, items)
		},
	}

	cmd.Flags().StringSliceVar(&types, "type", nil, "Product type to include (repeatable)")

	return cmd
}

func newProductsGetCommand(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Show one product",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			product, err := g.client().Products().RetrieveProduct(cmd.Context(), id)
			if err != nil {
				return err
			}

			return printProducts(cmd, g, []model.Product{product})
		},
	}
}

// productFlags are the attribute flags shared by create and update.
type productFlags struct {
	name string
	typ  string
}

func (f *productFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.name, "name", "", "Product name")
	cmd.Flags().StringVar(&f.typ, "type", "", "Product type (STANDARD, PREMIUM, LIMITED, DISCOUNTED)")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("type")
}

func (f *productFlags) product() (model.Product, error) {
	typ, err := model.ParseProductType(f.typ)
	if err != nil {
		return model.Product{}, err
	}
	return model.Product{Name: f.name, Type: typ}, nil
}

func newProductsCreateCommand(g *globals) *cobra.Command {
	var flags productFlags

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a product",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			product, err := flags.product()
			if err != nil {
				return err
			}

			id, err := g.client().Products().StoreNewProduct(cmd.Context(), product)
			if err != nil {
				return err
			}

			if g.jsonOutput {
				return writeJSON(cmd.OutOrStdout(), map[string]int{"id": id})
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "Created product %d\n", id)
			return err
		},
	}
	flags.register(cmd)

	return cmd
}

func newProductsUpdateCommand(g *globals) *cobra.Command {
	var flags productFlags

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Replace a product",
		Long:  "Replace every attribute of an existing product.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			product, err := flags.product()
			if err != nil {
				return err
			}

			if err := g.client().Products().UpdateProduct(cmd.Context(), product.WithIdentity(id)); err != nil {
				return err
			}

			_, err = fmt.Fprintf(cmd.OutOrStdout(), "Updated product %d\n", id)
			return err
		},
	}
	flags.register(cmd)

	return cmd
}

func newProductsDeleteCommand(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a product",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			if err := g.client().Products().DeleteProduct(cmd.Context(), id); err != nil {
				return err
			}

			_, err = fmt.Fprintf(cmd.OutOrStdout(), "Deleted product %d\n", id)
			return err
		},
	}
}

func parseProductTypes(raw []string) ([]model.ProductType, error) {
	types := make([]model.ProductType, 0, len(raw))
	for _, r := range raw {
		t, err := model.ParseProductType(r)
		if err != nil {
			return nil, err
		}
		types = append(types, t)
	}
	return types, nil
}

func printProducts(cmd *cobra.Command, g *globals, items []model.Product) error {
	out := cmd.OutOrStdout()
	if g.jsonOutput {
		return writeJSON(out, items)
	}

	if len(items) == 0 {
		_, err := fmt.Fprintln(out, "No products found")
		return err
	}

	w := newTable(out)
	fmt.Fprintln(w, "ID\tNAME\tTYPE")
	for _, p := range items {
		fmt.Fprintf(w, "%s\t%s\t%s\n", idString(p.ID), p.Name, p.Type)
	}
	return w.Flush()
}
