package main

import (
	giga "github.com/dogecoinfoundation/gigaledger/pkg"
	"github.com/dogecoinfoundation/gigaledger/pkg/keys"
	"github.com/dogecoinfoundation/gigaledger/pkg/node"
	"github.com/dogecoinfoundation/gigaledger/pkg/receivers"
	"github.com/dogecoinfoundation/gigaledger/pkg/store"
	"github.com/dogecoinfoundation/gigaledger/pkg/webapi"
	"github.com/tjstebbing/conductor"
)

func Server(conf giga.Config) {

	c := conductor.New(
		conductor.HookSignals(),
		conductor.Noisy(),
	)

	// Start the MessageBus Service
	bus := giga.NewMessageBus()
	c.Service("MessageBus", bus)

	// Set up all configured receivers
	receivers.SetUpReceivers(c, bus, conf)

	// Setup a Store (the UTXO pool)
	store, err := store.NewSQLiteStore(conf.Store.DBFile)
	if err != nil {
		panic(err)
	}
	defer store.Close()

	api := giga.NewAPI(store, keys.ECDSAVerifier{}, bus, conf)

	// Start the node listener (ZMQ rawtx feed), if configured
	if conf.Gigaledger.Node != "" {
		rx, err := node.NewTxnReceiver(bus, api, conf)
		if err != nil {
			panic(err)
		}
		c.Service("ZMQ Listener", rx)
	}

	// Start the Ledger API
	p, err := webapi.NewWebAPI(conf, api)
	if err != nil {
		panic(err)
	}
	c.Service("Ledger API", p)

	<-c.Start()
}
