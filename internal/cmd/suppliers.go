package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gastroflow/gastroflow-cli/internal/api"
)

// SuppliersCmd returns the `gastroflow suppliers` command group.
func SuppliersCmd(envFn EnvFunc) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "suppliers",
		Short: "Browse suppliers",
	}
	cmd.AddCommand(suppliersListCmd(envFn))
	return cmd
}

func suppliersListCmd(envFn EnvFunc) *cobra.Command {
	var (
		name  string
		email string
		page  int
		all   bool
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List suppliers",
		RunE: func(_ *cobra.Command, _ []string) error {
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

			var (
				items      []api.Supplier
				totalPages = 1
			)
			if all {
				items, err = env.Client.ListSuppliers()
			} else {
				var res *api.Page[api.Supplier]
				res, err = env.Client.ListSuppliersPage(page-1, env.Config.EffectivePageSize(), api.SupplierFilter{NomeFantasia: name, Email: email})
				if res != nil {
					items, totalPages = res.Items, max(res.TotalPages, 1)
				}
			}
			if err != nil {
				return fmt.Errorf("list suppliers: %w", err)
			}

			if len(items) == 0 {
				fmt.Fprintln(env.Out, "no suppliers found")
				return nil
			}
			for _, s := range items {
				fmt.Fprintf(env.Out, "  %-6s %-24s %-16s %s\n", fmt.Sprintf("#%d", s.ID), s.DisplayName(), s.Telefone, s.Email)
			}
			if !all {
				fmt.Fprintf(env.Out, "page %d of %d\n", page, totalPages)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&name, "name", "n", "", "filter by trade name")
	cmd.Flags().StringVar(&email, "email", "", "filter by email")
	cmd.Flags().IntVarP(&page, "page", "p", 1, "page number")
	cmd.Flags().BoolVarP(&all, "all", "a", false, "list every supplier, ignoring filters")
	return cmd
}
