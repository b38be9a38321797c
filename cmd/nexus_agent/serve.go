package main

import (
	"github.com/spf13/cobra"

	"github.com/creatorforge/nexus/internal/server"
)

var (
	servePort       int
	serveConfigPath string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long:  `Start an HTTP server that exposes REST endpoints for the two-phase content pipeline: script generation, video processing, and run history.`,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 8080, "Port to listen on")
	serveCmd.Flags().StringVar(&serveConfigPath, "config", "", "Path to config.json file")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	a, err := buildApp(cmd.Context(), serveConfigPath)
	if err != nil {
		return err
	}
	defer a.close()

	return server.New(a.cfg, servePort, a.pipeline, a.store).Start()
}
