package cmd

import (
	"fmt"
	"slices"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/gastroflow/gastroflow-cli/internal/api"
)

// ProductsCmd returns the `gastroflow products` command group.
func ProductsCmd(envFn EnvFunc) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "products",
		Short: "Manage products",
	}
	cmd.AddCommand(productsListCmd(envFn))
	cmd.AddCommand(productsImportCmd(envFn))
	return cmd
}

func productsListCmd(envFn EnvFunc) *cobra.Command {
	var (
		name     string
		category string
		page     int
		size     int
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List one page of products",
		RunE: func(_ *cobra.Command, _ []string) error {
			if category != "" && category != api.AllCategories && !slices.Contains(api.Categories, category) {
				return fmt.Errorf("category must be one of %s", strings.Join(api.Categories, ", "))
			}
			if page < 1 {
				return fmt.Errorf("page starts at 1")
			}
			env, err := envFn()
			if err != nil {
				return err
			}
			defer env.Close()
			if err := env.requireLogin(); err != nil {
				return err
			}
			if size <= 0 {
				size = env.Config.EffectivePageSize()
			}

			res, err := env.Client.ListProductsPage(page-1, size, api.ProductFilter{Nome: name, Categoria: category})
			if err != nil {
				return fmt.Errorf("list products: %w", err)
			}
			if len(res.Items) == 0 {
				fmt.Fprintln(env.Out, "no products found")
				return nil
			}
			for _, p := range res.Items {
				fmt.Fprintf(env.Out, "  %-6s %-28s %-14s %s\n",
					fmt.Sprintf("#%d", p.ID), p.Nome, api.CategoryLabel(p.Categoria),
					humanize.Commaf(p.Quantidade)+" "+p.UnidadeMedida)
			}
			fmt.Fprintf(env.Out, "page %d of %d\n", page, max(res.TotalPages, 1))
			return nil
		},
	}
	cmd.Flags().StringVarP(&name, "name", "n", "", "filter by name")
	cmd.Flags().StringVarP(&category, "category", "c", "", "filter by category ("+strings.Join(api.Categories, ", ")+")")
	cmd.Flags().IntVarP(&page, "page", "p", 1, "page number")
	cmd.Flags().IntVar(&size, "page-size", 0, "rows per page (defaults to the configured page size)")
	return cmd
}

func productsImportCmd(envFn EnvFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file.csv>",
		Short: "Upload a product sheet",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			file, err := api.ReadCSVFile(args[0])
			if err != nil {
				return err
			}
			env, err := envFn()
			if err != nil {
				return err
			}
			defer env.Close()
			if err := env.requireLogin(); err != nil {
				return err
			}

			fmt.Fprintf(env.Out, "uploading %s (%d rows)\n", file.Name, file.Rows)
			res, err := env.Client.ImportProductsCSV(file)
			if err != nil {
				return fmt.Errorf("import products: %w", err)
			}
			if res.Imported > 0 || res.Failed > 0 {
				fmt.Fprintf(env.Out, "imported: %d\nfailed: %d\n", res.Imported, res.Failed)
			}
			if msg := strings.TrimSpace(res.Message); msg != "" {
				fmt.Fprintln(env.Out, msg)
			}
			return nil
		},
	}
}
