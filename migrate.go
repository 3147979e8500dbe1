package main

import (
	"github.com/spf13/cobra"

	"github.com/uslanozan/asset-smith/config"
	"github.com/uslanozan/asset-smith/database"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the assets and checkpoint tables, then exit",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := database.InitDB(cfg.DB, log)
		if err != nil {
			return err
		}
		defer database.Close(db)

		// redis backend'inde tablo yok
		if cfg.Memory.Backend == config.BackendSQLite {
			memDB, err := database.InitMemoryDB(cfg.Memory.Path, log)
			if err != nil {
				return err
			}
			defer database.Close(memDB)
		}
		log.Info("migration complete")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
