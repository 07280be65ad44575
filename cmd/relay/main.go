package main

import (
	"flag"
	"fmt"
	"log"
	"net/http"

	"euchre/relay"
)

func main() {
	addr := flag.String("addr", ":8080", "listen address")
	flag.Parse()

	r := relay.New()
	http.HandleFunc("/ws", r.HandleWS)
	http.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprintf(w, "rooms=%d connections=%d\n", r.Rooms(), r.Connections())
	})

	log.Printf("relay listening on %s", *addr)
	log.Fatal(http.ListenAndServe(*addr, nil))
}
