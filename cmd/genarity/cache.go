package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"genarity/internal/emit"
	"genarity/internal/project"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Manage the on-disk output cache",
}

var cacheCleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Remove every cached output",
	Args:  cobra.NoArgs,
	RunE:  runCacheClean,
}

var cacheDirCmd = &cobra.Command{
	Use:   "dir",
	Short: "Print the cache directory",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		dir, err := cacheDirFor(cmd)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), dir)
		return nil
	},
}

func init() {
	cacheCmd.AddCommand(cacheCleanCmd)
	cacheCmd.AddCommand(cacheDirCmd)
}

func cacheDirFor(cmd *cobra.Command) (string, error) {
	m, err := loadManifestFor(cmd)
	if err != nil {
		return "", err
	}
	if m == nil {
		return project.DefaultCacheDir, nil
	}
	return m.Config.Cache.Dir, nil
}

func runCacheClean(cmd *cobra.Command, _ []string) error {
	dir, err := cacheDirFor(cmd)
	if err != nil {
		return err
	}
	disk, err := emit.OpenDiskCache(dir)
	if err != nil {
		return err
	}
	if err := disk.Clean(); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "cleaned %s\n", disk.Dir())
	return nil
}
