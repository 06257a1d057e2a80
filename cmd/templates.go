package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sells-group/docreview-cli/internal/template"
)

var (
	templatesDirFlag string
	templatesType    string
)

var templatesCmd = &cobra.Command{
	Use:   "templates",
	Short: "Inspect the template catalog",
}

var templatesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List loaded document types",
	RunE: func(cmd *cobra.Command, args []string) error {
		catalog, err := loadCatalog()
		if err != nil {
			return err
		}
		for _, docType := range catalog.DocTypes() {
			tmpl := catalog.Get(docType)
			fmt.Printf("%s\t%s\t(%d fields)\n", docType, tmpl.DisplayName, len(tmpl.Fields))
		}
		return nil
	},
}

var templatesShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Render one template as markdown",
	RunE: func(cmd *cobra.Command, args []string) error {
		catalog, err := loadCatalog()
		if err != nil {
			return err
		}
		fmt.Println(catalog.Get(templatesType).Markdown())
		return nil
	},
}

func loadCatalog() (template.Catalog, error) {
	dir := cfg.Templates.Dir
	if templatesDirFlag != "" {
		dir = templatesDirFlag
	}
	catalog, err := template.Load(dir)
	if err != nil {
		return nil, usageErrorf("load templates: %v", err)
	}
	return catalog, nil
}

func init() {
	templatesCmd.PersistentFlags().StringVar(&templatesDirFlag, "templates", "", "template directory (default from config)")
	templatesShowCmd.Flags().StringVar(&templatesType, "type", "", "document type (required)")
	_ = templatesShowCmd.MarkFlagRequired("type")
	templatesCmd.AddCommand(templatesListCmd)
	templatesCmd.AddCommand(templatesShowCmd)
	rootCmd.AddCommand(templatesCmd)
}
