//go:build mage

package main

import (
	"fmt"
	"path/filepath"

	"github.com/magefile/mage/mg"
)

// Sync builds the CLI and mirrors every collection into data/catalog.db.
func Sync() error {
	mg.Deps(Init, Build)
	fmt.Println("[sync] Mirroring IGM, RHCA, Index Medicus, and ADC into the local catalog.")
	return run(filepath.Join(binDir, binName), "sync")
}

// Export builds the CLI and writes every synced collection to data/export/.
func Export() error {
	mg.Deps(Build)
	return run(filepath.Join(binDir, binName), "export", "--format", "yaml")
}
