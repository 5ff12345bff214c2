// Package cmd implements the command-line interface for jutdl.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/jutdl/jutdl/color"
	"github.com/jutdl/jutdl/config"
	"github.com/jutdl/jutdl/constant"
	"github.com/jutdl/jutdl/downloader"
	"github.com/jutdl/jutdl/episode"
	"github.com/jutdl/jutdl/icon"
	"github.com/jutdl/jutdl/key"
	"github.com/jutdl/jutdl/log"
	"github.com/jutdl/jutdl/network"
	"github.com/jutdl/jutdl/quality"
	"github.com/jutdl/jutdl/style"
	"github.com/jutdl/jutdl/util"
	"github.com/jutdl/jutdl/where"

	cc "github.com/ivanpirog/coloredcobra"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	rootCmd.Flags().BoolP("version", "v", false, "Print the application version")

	rootCmd.Flags().StringP("anime", "a", "", "Anime name as it appears in the site's URLs, also the output directory name")
	rootCmd.Flags().StringP("episodes", "e", "all", `Episodes to download: "all", a single number or a range like "3-12"`)
	rootCmd.Flags().StringP("resolution", "r", "1080", "Video resolution: 1080, 720, 480 or 360")
	lo.Must0(rootCmd.RegisterFlagCompletionFunc("resolution", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return lo.Map(quality.Tiers(), func(t quality.Tier, _ int) string {
			return fmt.Sprint(t.Height())
		}), cobra.ShellCompDirectiveNoFileComp
	}))

	rootCmd.Flags().StringP("output", "o", "", "Directory to create the anime folder in")
	lo.Must0(viper.BindPFlag(key.DownloaderOutput, rootCmd.Flags().Lookup("output")))

	rootCmd.Flags().IntP("workers", "w", defaultInt(key.DownloaderWorkers), "Maximum number of episodes downloaded at once (0 = no limit)")
	lo.Must0(viper.BindPFlag(key.DownloaderWorkers, rootCmd.Flags().Lookup("workers")))

	rootCmd.Flags().Int("retries", defaultInt(key.DownloaderRetries), "Extra attempts for a failing media request")
	lo.Must0(viper.BindPFlag(key.DownloaderRetries, rootCmd.Flags().Lookup("retries")))

	rootCmd.Flags().String("site", "", "Host serving the episode pages")
	lo.Must0(rootCmd.Flags().MarkHidden("site"))
	lo.Must0(viper.BindPFlag(key.DownloaderSite, rootCmd.Flags().Lookup("site")))

	rootCmd.Flags().Bool("fingerprint", false, "Mimic a browser TLS fingerprint")
	lo.Must0(viper.BindPFlag(key.NetworkFingerprint, rootCmd.Flags().Lookup("fingerprint")))

	rootCmd.PersistentFlags().StringP("icons", "I", "", "Set the visual icon variant (e.g., nerd, emoji, square)")
	lo.Must0(rootCmd.RegisterFlagCompletionFunc("icons", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return icon.AvailableVariants(), cobra.ShellCompDirectiveDefault
	}))
	lo.Must0(viper.BindPFlag(key.IconsVariant, rootCmd.PersistentFlags().Lookup("icons")))
}

// defaultInt is the registered default of an integer config key, shown in flag help.
func defaultInt(k string) int {
	return config.Default[k].Value.(int)
}

var errMissingAnime = errors.New(`required flag "anime" not set`)

// animeFlag returns --anime, which every download needs.
func animeFlag(cmd *cobra.Command) (string, error) {
	anime := lo.Must(cmd.Flags().GetString("anime"))
	if strings.TrimSpace(anime) == "" {
		return "", errMissingAnime
	}
	return anime, nil
}

// rootCmd downloads the episodes of one anime.
var rootCmd = &cobra.Command{
	Use:   constant.App,
	Short: "Download every episode of an anime from " + constant.DefaultSite,
	Long: style.New().Bold(true).Foreground(color.HiRed).Render(constant.App) + "\n" +
		style.New().Italic(true).Foreground(color.HiRed).Render("    - Download every episode of an anime, stopping where the series ends"),
	Example: "  jutdl -a naruto\n  jutdl -a one-piece -e 10-20 -r 720",
	Run: func(cmd *cobra.Command, args []string) {
		if cmd.Flags().Changed("version") {
			versionCmd.Run(versionCmd, args)
			return
		}

		anime, err := animeFlag(cmd)
		if err != nil {
			_ = cmd.Usage()
			handleErr(err)
		}

		spec, err := episode.ParseSpec(lo.Must(cmd.Flags().GetString("episodes")))
		handleErr(err)

		tier, err := quality.Parse(lo.Must(cmd.Flags().GetString("resolution")))
		handleErr(err)

		progress := newProgress(cmd.OutOrStdout(), anime, spec, tier)

		d, err := downloader.New(downloader.Options{
			Anime:    anime,
			Episodes: spec,
			Tier:     tier,
			Site:     viper.GetString(key.DownloaderSite),
			Output:   where.Downloads(),
			Workers:  viper.GetInt(key.DownloaderWorkers),
			Retry: downloader.Retry{
				Attempts: viper.GetInt(key.DownloaderRetries) + 1,
				Backoff:  viper.GetDuration(key.DownloaderRetryBackoff),
			},
			Extension: viper.GetString(key.DownloaderExtension),
			Client: network.NewClient(network.Options{
				Timeout:     viper.GetDuration(key.NetworkTimeout),
				Fingerprint: viper.GetBool(key.NetworkFingerprint),
			}),
			OnEpisode: progress.Report,
		})
		handleErr(err)

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		progress.Start()
		summary, err := d.Run(ctx)
		progress.Stop()
		handleErr(err)

		cmd.Printf(
			"%s downloaded %s of %s to %s\n",
			style.Fg(color.Green)(icon.Get(icon.Success)),
			util.Quantify(summary.Episodes, "episode", "episodes"),
			style.Fg(color.Purple)(summary.Anime),
			style.Faint(summary.Dir),
		)
	},
}

// Execute initializes child command routing and processes the CLI entry point.
func Execute() {
	if viper.GetBool(key.CliColored) {
		cc.Init(&cc.Config{
			RootCmd:       rootCmd,
			Headings:      cc.HiCyan + cc.Bold + cc.Underline,
			Commands:      cc.HiYellow + cc.Bold,
			Example:       cc.Italic,
			ExecName:      cc.Bold,
			Flags:         cc.Bold,
			FlagsDataType: cc.Italic + cc.HiBlue,
		})
	}

	rootCmd.SetOut(os.Stdout)
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func handleErr(err error) {
	if err != nil {
		log.Error(err)
		_, _ = fmt.Fprintf(os.Stderr, "%s %s\n", style.Fg(color.Red)(icon.Get(icon.Fail)), strings.Trim(err.Error(), " \n"))
		os.Exit(1)
	}
}
