// seed_history importa facturas históricas desde un CSV a la base de datos:
// crea las facturas pre-aprobadas y sus filas en el ledger de precios para
// que el detector tenga línea base desde el primer día.
//
// Uso: go run ./cmd/seed_history [ruta/historico.csv]
// Por defecto busca historico.csv en el directorio actual.
// Acepta CSV en UTF-8 o Windows-1252 (exportes de Excel).
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/jhoicas/Aprobaciones-api/internal/application/importer"
	"github.com/jhoicas/Aprobaciones-api/internal/infrastructure/postgres"
	"github.com/jhoicas/Aprobaciones-api/pkg/config"
)

func main() {
	csvPath := "historico.csv"
	if len(os.Args) > 1 {
		csvPath = os.Args[1]
	}
	f, err := os.Open(csvPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Abrir CSV: %v\n", err)
		os.Exit(1)
	}
	defer f.Close()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Cargar configuración: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Conexión a PostgreSQL: %v\n", err)
		os.Exit(1)
	}
	defer pool.Close()

	uc := importer.NewImportUseCase(postgres.NewTxRunner(pool))
	summary, err := uc.ImportCSV(ctx, f, "seed_history")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Importar CSV: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Importado %s: %d facturas, %d filas de ledger, %d proveedores, %d filas omitidas\n",
		csvPath, summary.Invoices, summary.LedgerRows, summary.Vendors, summary.SkippedRows)
}
