package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"

	"github.com/gorilla/mux"

	"github.com/MarcGrol/shopcore/lib/mypublisher"
	"github.com/MarcGrol/shopcore/lib/mypubsub"
	"github.com/MarcGrol/shopcore/lib/myqueue"
	"github.com/MarcGrol/shopcore/lib/mystore"
	"github.com/MarcGrol/shopcore/lib/mytime"
	"github.com/MarcGrol/shopcore/lib/myuuid"
	"github.com/MarcGrol/shopcore/lib/myvault"
	"github.com/MarcGrol/shopcore/services/admin"
	"github.com/MarcGrol/shopcore/services/cart"
	"github.com/MarcGrol/shopcore/services/catalog"
	"github.com/MarcGrol/shopcore/services/order"
	"github.com/MarcGrol/shopcore/services/settlement"
	"github.com/MarcGrol/shopcore/services/settlement/gatewayvault"
	"github.com/MarcGrol/shopcore/services/warmup"
)

func main() {
	c := context.Background()

	router := mux.NewRouter()

	nower := mytime.RealNower{}
	uuider := myuuid.RealUUIDer{}

	productStore, productStoreCleanup, err := mystore.New[catalog.Product](c)
	if err != nil {
		log.Fatalf("Error creating product store: %s", err)
	}
	defer productStoreCleanup()

	cartStore, cartStoreCleanup, err := mystore.New[cart.Item](c)
	if err != nil {
		log.Fatalf("Error creating cart store: %s", err)
	}
	defer cartStoreCleanup()

	orderStore, orderStoreCleanup, err := mystore.New[order.Order](c)
	if err != nil {
		log.Fatalf("Error creating order store: %s", err)
	}
	defer orderStoreCleanup()

	vault, vaultCleanup, err := myvault.New[gatewayvault.Credentials](c)
	if err != nil {
		log.Fatalf("Error creating vault: %s", err)
	}
	defer vaultCleanup()

	err = seedGatewayCredentials(c, vault)
	if err != nil {
		log.Fatalf("Error seeding gateway credentials: %s", err)
	}

	pubsub, pubsubCleanup, err := mypubsub.New(c)
	if err != nil {
		log.Fatalf("Error creating pubsub: %s", err)
	}
	defer pubsubCleanup()

	queue, queueCleanup, err := myqueue.New(c)
	if err != nil {
		log.Fatalf("Error creating task queue: %s", err)
	}
	defer queueCleanup()

	publisher, publisherCleanup, err := mypublisher.New(c, pubsub, queue, nower)
	if err != nil {
		log.Fatalf("Error creating publisher: %s", err)
	}
	defer publisherCleanup()
	publisher.RegisterEndpoints(c, router)

	catalogService := catalog.NewWebService(productStore, nower, uuider)
	catalogService.RegisterEndpoints(c, router)

	cartService := cart.NewWebService(cartStore, productStore, nower)
	cartService.RegisterEndpoints(c, router)

	orderService := order.NewWebService(orderStore, cartStore, productStore, publisher, nower, uuider)
	orderService.RegisterEndpoints(c, router)

	settlementService := settlement.NewWebService(settlement.NewPayer(), orderStore, vault, publisher, nower)
	settlementService.RegisterEndpoints(c, router)

	adminService := admin.NewWebService(orderStore, productStore, publisher, pubsub, nower)
	adminService.RegisterEndpoints(c, router)
	err = adminService.Subscribe(c)
	if err != nil {
		log.Fatalf("Error subscribing to order events: %s", err)
	}

	warmupService := warmup.NewService(vault)
	warmupService.RegisterEndpoints(c, router)

	startWebServerBlocking(router)
}

// The signing secret is shared out-of-band with the gateway: it enters
// the process through the environment and the vault only.
func seedGatewayCredentials(c context.Context, vault myvault.VaultReadWriter[gatewayvault.Credentials]) error {
	apiKey := os.Getenv("GATEWAY_API_KEY")
	signingSecret := os.Getenv("GATEWAY_SIGNING_SECRET")
	if apiKey == "" || signingSecret == "" {
		return fmt.Errorf("missing GATEWAY_API_KEY or GATEWAY_SIGNING_SECRET")
	}

	return vault.Put(c, gatewayvault.CurrentGatewayCredentials, gatewayvault.Credentials{
		KeyID:         os.Getenv("GATEWAY_KEY_ID"),
		APIKey:        apiKey,
		SigningSecret: signingSecret,
		Currency:      os.Getenv("GATEWAY_CURRENCY"),
	})
}

func startWebServerBlocking(router *mux.Router) {
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.Printf("Starting webserver on port %s (try http://localhost:%s)", port, port)
	err := http.ListenAndServe(fmt.Sprintf(":%s", port), router)
	if err != nil {
		log.Fatalf("Error starting webserver on port %s: %s", port, err)
	}
}
