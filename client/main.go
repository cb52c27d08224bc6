package main

import (
	"bufio"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"hema-storefront/internal/cart"
	"hema-storefront/internal/catalog"
	"hema-storefront/internal/checkout"
	"hema-storefront/internal/config"
	"hema-storefront/internal/database"
	"hema-storefront/internal/model"
	cartRepository "hema-storefront/internal/repository/cart"
	productRepository "hema-storefront/internal/repository/product"
	"hema-storefront/internal/search"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// Developer tool that talks to the backend directly, without the HTTP server.
func main() {
	products := flag.Bool("products", false, "print the normalized catalog")
	query := flag.String("search", "", "run a hybrid search for the given query")
	pages := flag.Int("pages", 1, "number of search pages to fetch")
	showCart := flag.Bool("cart", false, "print the stored cart and its checkout quote")
	add := flag.String("add", "", "add the product with this id to the stored cart")
	similarTo := flag.String("similar", "", "print products similar to the given product id")
	live := flag.Bool("live", false, "read queries from stdin, one line per keystroke")
	flag.Parse()

	cnf := config.LoadConfigOrPanic()
	zerolog.SetGlobalLevel(zerolog.WarnLevel)
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	restClient := database.NewRestClient(cnf.Backend.Url, cnf.Backend.ApiKey, cnf.Backend.RequestTimeout)
	productRepo := productRepository.NewRest(restClient)
	catalogService := catalog.NewService(productRepo)
	searchClient := search.NewClient(restClient, cnf.Backend.SearchFunction)
	gate := search.Gate{Threshold: cnf.Storefront.RelevanceThreshold, FallbackSize: cnf.Storefront.FallbackSize}

	switch {
	case *products:
		printJSON(catalogService.Products(ctx))

	case *query != "":
		session := search.NewSession(searchClient, cnf.Storefront.PageSize)
		snap, err := session.Start(ctx, *query)
		for i := 1; err == nil && i < *pages && snap.HasMore; i++ {
			snap, err = session.NextPage(ctx)
		}
		if err != nil {
			fmt.Fprintln(os.Stderr, "search failed:", err)
		}
		result := model.SearchResult{Products: snap.Products, MaxScore: snap.MaxScore}
		display := gate.Apply(*query, result, catalogService.Products(ctx))
		if display.NoMatch {
			fmt.Println("No good match, showing the catalog instead.")
		}
		printJSON(display)

	case *showCart || *add != "":
		s := cart.NewSynchronizer(cartRepository.NewRest(restClient), cnf.Storefront.CustomerId, nil)
		snap := s.Load(ctx)
		if *add != "" {
			p, ok := catalogService.ByID(ctx, *add)
			if !ok {
				fmt.Fprintln(os.Stderr, "unknown product", *add)
				os.Exit(1)
			}
			var err error
			if snap, err = s.AddToCart(ctx, cart.ItemFromProduct(p)); err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(1)
			}
		}
		printJSON(snap)
		q := checkout.NewCalculator(cnf.Storefront.DeliveryFee).Quote(snap.Items, checkout.Delivery)
		fmt.Printf("subtotal %s, delivery %s, total %s\n",
			checkout.FormatBRL(q.Subtotal), checkout.FormatBRL(q.DeliveryFee), checkout.FormatBRL(q.Total))

	case *similarTo != "":
		ids, err := search.NewSimilar(restClient, cnf.Backend.SimilarityRPC, productRepo).Find(ctx, *similarTo, 4)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		fmt.Println(strings.Join(ids, "\n"))

	case *live:
		runLive(ctx, cnf, searchClient, gate, catalogService.Products(ctx))

	default:
		flag.Usage()
	}
}

// runLive feeds every stdin line to a debounced search, as if typed in a search box.
// A line holding only "+" loads the next page. At end of input it waits for the
// last query to settle.
func runLive(ctx context.Context, cnf config.Config, searcher search.Searcher, gate search.Gate, products []model.Product) {
	settled := make(chan string, 16)
	live := search.NewLiveSearch(
		search.NewSession(searcher, cnf.Storefront.PageSize),
		search.NewDebouncer(cnf.Storefront.Debounce),
		gate,
		products,
		func(r search.LiveResult) {
			if r.Err != nil {
				fmt.Println("search failed, showing the catalog")
			} else if r.Display.NoMatch {
				fmt.Printf("%q: no good match\n", r.Query)
			}
			for _, p := range r.Display.Products {
				fmt.Printf("  %-40s %s  %.2f\n", p.Name, checkout.FormatBRL(decimal.NewFromFloat(p.Price)), p.Score)
			}
			if r.HasMore {
				fmt.Println("  (+ for more)")
			}
			select {
			case settled <- r.Query:
			default:
			}
		},
	)
	defer live.Close()

	last := ""
	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimSpace(line) == "+" {
			live.More(ctx)
			continue
		}
		last = strings.TrimSpace(line)
		live.Type(ctx, line)
	}

	timeout := time.After(cnf.Storefront.Debounce + cnf.Backend.RequestTimeout)
	for {
		select {
		case q := <-settled:
			if q == last {
				return
			}
		case <-timeout:
			return
		}
	}
}

func printJSON(v any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		fmt.Fprintln(os.Stderr, err)
	}
}
