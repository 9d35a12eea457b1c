package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/codegraph/codeintel/internal/mcpserver"
)

func mcpCmd() *cli.Command {
	return &cli.Command{
		Name:  "mcp",
		Usage: "Start an MCP server over stdio exposing symbol/relationship query tools",
		Subcommands: []*cli.Command{
			{
				Name:  "manifest",
				Usage: "Print the MCP server manifest (server.json) for registry publishing",
				Action: func(c *cli.Context) error {
					data, err := mcpserver.GenerateManifest(c.App.Version)
					if err != nil {
						return err
					}
					fmt.Println(string(data))
					return nil
				},
			},
		},
		Action: func(c *cli.Context) error {
			server := mcpserver.NewServer(c.App.Version, stateDir(c))
			return server.Run(context.Background())
		},
	}
}
