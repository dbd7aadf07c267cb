// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

func outputFlags() []cli.Flag {
	return []cli.Flag{
		&cli.BoolFlag{
			Name:  "json",
			Usage: "Output raw JSON",
		},
		&cli.BoolFlag{
			Name:  "pretty",
			Usage: "Pretty-print JSON output (default on a terminal)",
		},
	}
}

func pageFlags(limit int) []cli.Flag {
	return []cli.Flag{
		&cli.IntFlag{
			Name:    "limit",
			Aliases: []string{"l"},
			Usage:   "Items per request",
			Value:   limit,
		},
		&cli.IntFlag{
			Name:  "offset",
			Usage: "Index of the first item",
		},
		&cli.BoolFlag{
			Name:    "all",
			Aliases: []string{"a"},
			Usage:   "Follow next links and fetch every page",
		},
	}
}

// authCommand runs the authorization code flow
func authCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "auth",
		Usage: "Authorize with Spotify and save the session tokens",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "show-dialog",
				Usage: "Always show the consent dialog, even if already granted",
			},
			&cli.BoolFlag{
				Name:  "no-save",
				Usage: "Print the tokens instead of writing them to the env file",
			},
		},
		Action: r.Auth,
	}
}

func meCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "me",
		Usage:  "Show the current user's profile",
		Flags:  outputFlags(),
		Action: r.Me,
	}
}

// playlistsCommand lists playlists and their tracks
func playlistsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "playlists",
		Aliases: []string{"pl"},
		Usage:   "List playlists of the current or another user",
		Flags: append(append([]cli.Flag{
			&cli.StringFlag{
				Name:    "user",
				Aliases: []string{"u"},
				Usage:   "User ID (defaults to the current user)",
			},
		}, pageFlags(20)...), outputFlags()...),
		Action: r.Playlists,
		Commands: []*cli.Command{
			{
				Name:  "tracks",
				Usage: "List the tracks of a playlist",
				Arguments: []cli.Argument{
					&cli.StringArg{
						Name: "id",
					},
				},
				Flags:  append(pageFlags(100), outputFlags()...),
				Action: r.PlaylistTracks,
			},
			{
				Name:  "export",
				Usage: "Export a playlist to CSV, Markdown or plain text",
				Arguments: []cli.Argument{
					&cli.StringArg{
						Name: "id",
					},
				},
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "format",
						Aliases: []string{"f"},
						Usage:   "csv, markdown or text",
						Value:   "csv",
					},
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Output path (file base for csv, directory for markdown); defaults to the playlist ID",
					},
					&cli.BoolFlag{
						Name:  "cover",
						Usage: "Download the cover image alongside a markdown export",
					},
				},
				Action: r.ExportPlaylist,
			},
		},
	}
}

func tracksCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:      "tracks",
		Usage:     "Look up tracks by ID",
		ArgsUsage: "<id>...",
		Flags: append([]cli.Flag{
			&cli.BoolFlag{
				Name:  "features",
				Usage: "Include audio features",
			},
		}, outputFlags()...),
		Action: r.Tracks,
	}
}

func searchCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:      "search",
		Usage:     "Search the catalog",
		ArgsUsage: "<keywords>...",
		Flags: append(append([]cli.Flag{
			&cli.StringSliceFlag{
				Name:    "type",
				Aliases: []string{"t"},
				Usage:   "Result types: album, artist, playlist, track, show (default track)",
			},
			&cli.StringFlag{
				Name:  "artist",
				Usage: "Filter by artist name",
			},
			&cli.StringFlag{
				Name:  "album",
				Usage: "Filter by album name",
			},
			&cli.StringFlag{
				Name:  "genre",
				Usage: "Filter by genre",
			},
			&cli.StringFlag{
				Name:  "year",
				Usage: "Release year or range, e.g. 1959 or 1955-1960",
			},
		}, pageFlags(10)...), outputFlags()...),
		Action: r.Search,
	}
}

func topCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "top",
		Usage: "Show the current user's top artists or tracks",
		Arguments: []cli.Argument{
			&cli.StringArg{
				Name:  "kind",
				Value: "tracks",
			},
		},
		Flags: append(append([]cli.Flag{
			&cli.StringFlag{
				Name:    "range",
				Aliases: []string{"r"},
				Usage:   "short_term, medium_term or long_term",
				Value:   "medium_term",
			},
		}, pageFlags(20)...), outputFlags()...),
		Action: r.Top,
	}
}

func recentCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "recent",
		Usage: "Show recently played tracks",
		Flags: append([]cli.Flag{
			&cli.IntFlag{
				Name:    "limit",
				Aliases: []string{"l"},
				Usage:   "Maximum number of tracks",
				Value:   20,
			},
			&cli.DurationFlag{
				Name:  "since",
				Usage: "Only tracks played within this duration, e.g. 2h",
			},
		}, outputFlags()...),
		Action: r.Recent,
	}
}

func devicesCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "devices",
		Usage:  "List available playback devices",
		Flags:  outputFlags(),
		Action: r.Devices,
	}
}
