package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jedrzejginter/toolkit/pkg/cache"
	"github.com/jedrzejginter/toolkit/pkg/errors"
)

// cacheCommand creates the cache management command.
func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the registry response cache",
	}

	cmd.AddCommand(c.cacheClearCommand())
	cmd.AddCommand(c.cachePathCommand())

	return cmd
}

// cacheClearCommand creates the "cache clear" subcommand.
func (c *CLI) cacheClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Clear all cached registry responses",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if url := c.settings.RedisURL; url != "" {
				rc, err := cache.NewRedisCache(cmd.Context(), url, appName+":")
				if err != nil {
					return errors.Wrap(errors.ErrCodeInvalidInput, err, "connect to redis cache")
				}
				defer rc.Close()
				count, err := rc.Clear(cmd.Context())
				if err != nil {
					return fmt.Errorf("clear redis cache: %w", err)
				}
				printSuccess("Cleared %d cached entries", count)
				printDetail("Redis: %s", url)
				return nil
			}

			dir, err := cacheDir()
			if err != nil {
				return fmt.Errorf("get cache dir: %w", err)
			}
			fc, err := cache.NewFileCache(dir)
			if err != nil {
				return fmt.Errorf("open cache: %w", err)
			}
			count, err := fc.Clear()
			if err != nil {
				return fmt.Errorf("clear cache: %w", err)
			}
			if count == 0 {
				printInfo("Cache is empty")
				return nil
			}
			printSuccess("Cleared %d cached entries", count)
			printDetail("Directory: %s", dir)
			return nil
		},
	}
}

// cachePathCommand creates the "cache path" subcommand.
func (c *CLI) cachePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the cache location",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if url := c.settings.RedisURL; url != "" {
				fmt.Fprintln(cmd.OutOrStdout(), url)
				return nil
			}
			dir, err := cacheDir()
			if err != nil {
				return fmt.Errorf("get cache dir: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), dir)
			return nil
		},
	}
}
