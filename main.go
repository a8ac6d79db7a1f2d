package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var (
	cookie       string
	apiKey       string
	apiURL       string
	settingsPath string
	debugMode    bool
)

var rootCmd = &cobra.Command{
	Use:   "medium-summarizer <url>",
	Short: "Summarize a Medium article using an AI model",
	Long: `Fetches a Medium article with your session cookie, extracts the readable
text, and prints a structured summary (title, key points, tags).`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := LoadConfig(settingsPath)
		if err != nil {
			log.Fatalf("Failed to load configuration: %v", err)
		}

		// Flags override environment values
		if cookie != "" {
			cfg.Cookie = cookie
		}
		if apiKey != "" {
			cfg.APIKey = apiKey
		}
		if apiURL != "" {
			cfg.APIURL = apiURL
		}

		if debugMode {
			SetDebugMode(true)
		}

		if err := run(cmd.Context(), cfg, args[0]); err != nil {
			log.Fatalf("Summarization failed: %v", err)
		}
	},
}

func init() {
	rootCmd.Flags().StringVar(&cookie, "cookie", "", "Medium session cookie (or MEDIUM_COOKIE environment variable)")
	rootCmd.Flags().StringVar(&apiKey, "api-key", "", "API key (or CLAUDE_API environment variable)")
	rootCmd.Flags().StringVar(&apiURL, "api-url", "", "API messages endpoint (or CLAUDE_URL environment variable)")
	rootCmd.Flags().StringVar(&settingsPath, "settings", "", "Path to a settings YAML file")
	rootCmd.Flags().BoolVar(&debugMode, "debug", false, "Enable debug logging")
}

// run executes the one-shot pipeline: fetch, extract, summarize, print.
// Both clients are constructed up front so credential problems surface
// before any network call.
func run(ctx context.Context, cfg *Config, articleURL string) error {
	client, err := NewMediumClient(cfg.Cookie)
	if err != nil {
		return err
	}

	agent, err := NewSummaryAgent(cfg)
	if err != nil {
		return err
	}

	log.Printf("→ Fetching %s", articleURL)
	page, err := client.Fetch(ctx, articleURL)
	if err != nil {
		return err
	}
	debugLog("fetched %d bytes, status %s", len(page.Body), page.Status)

	doc, err := GetContent(page, WithReadabilityFallback())
	if err != nil {
		return err
	}
	if doc.Body == "" {
		return fmt.Errorf("no article content found at %s", articleURL)
	}
	log.Printf("✓ Extracted %q (%d characters)", doc.Title, len(doc.Body))

	log.Printf("→ Summarizing...")
	summary, err := agent.Fetch(ctx, doc)
	if err != nil {
		return err
	}
	log.Printf("✓ Summarized")

	printSummary(summary)
	return nil
}

func printSummary(s *SummaryResult) {
	fmt.Printf("# %s\n\n", s.Title)
	for _, point := range s.BulletPoints {
		fmt.Printf("- %s\n", point)
	}
	if len(s.Tags) > 0 {
		fmt.Printf("\nTags: %s\n", strings.Join(s.Tags, ", "))
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
