package webapi

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strconv"

	giga "github.com/dogecoinfoundation/gigaledger/pkg"
	"github.com/dogecoinfoundation/gigaledger/pkg/wire"
	"github.com/julienschmidt/httprouter"
	"github.com/tjstebbing/conductor"
)

// WebAPI implements conductor.Service
type WebAPI struct {
	api    giga.API
	config giga.Config
}

// interface guard ensures WebAPI implements conductor.Service
var _ conductor.Service = WebAPI{}

func NewWebAPI(config giga.Config, api giga.API) (WebAPI, error) {
	return WebAPI{api: api, config: config}, nil
}

func (t WebAPI) Run(started, stopped chan bool, stop chan context.Context) error {
	go func() {
		adminMux, pubMux := t.createRouters()

		// Start the admin server
		adminServer := &http.Server{Addr: t.config.WebAPI.AdminBind + ":" + t.config.WebAPI.AdminPort, Handler: adminMux}
		fmt.Printf("\nAdmin API listening on %s:%s", t.config.WebAPI.AdminBind, t.config.WebAPI.AdminPort)
		go func() {
			if err := adminServer.ListenAndServe(); err != http.ErrServerClosed {
				log.Fatalf("HTTP server admin ListenAndServe: %v", err)
			}
		}()

		// Start the public server
		pubServer := &http.Server{Addr: t.config.WebAPI.PubBind + ":" + t.config.WebAPI.PubPort, Handler: pubMux}
		fmt.Printf("\nPublic API listening on %s:%s", t.config.WebAPI.PubBind, t.config.WebAPI.PubPort)
		go func() {
			if err := pubServer.ListenAndServe(); err != http.ErrServerClosed {
				log.Fatalf("HTTP server public ListenAndServe: %v", err)
			}
		}()

		started <- true
		ctx := <-stop
		adminServer.Shutdown(ctx)
		pubServer.Shutdown(ctx)
		stopped <- true
	}()
	return nil
}

func (t WebAPI) createRouters() (adminMux *httprouter.Router, pubMux *httprouter.Router) {
	adminMux = httprouter.New() // Admin APIs
	pubMux = httprouter.New()   // Public APIs

	// Admin APIs

	// POST { txn } /validate-txn -> { valid, errors } check a txn against the pool
	adminMux.POST("/validate-txn", t.validateTxn)

	// POST { txn } /submit-txn -> { txid, result, applied } validate and apply to the pool
	adminMux.POST("/submit-txn", t.submitTxn)

	// POST { hex } /decode-txn -> { txn } decode wire bytes
	adminMux.POST("/decode-txn", t.decodeTxn)

	// POST { txn } /encode-txn -> { hex } encode to wire bytes
	adminMux.POST("/encode-txn", t.encodeTxn)

	// POST { txid, vout, owner, amount } /utxo -> { status } insert an unspent output
	adminMux.POST("/utxo", t.addUtxo)

	// GET /utxo/:txnid/:vout -> { owner, amount } look up an unspent output
	adminMux.GET("/utxo/:txnid/:vout", t.getUtxo)

	// GET /pool/balance -> { units, coins } sum of the unspent pool
	adminMux.GET("/pool/balance", t.getPoolBalance)

	// External APIs

	pubMux.GET("/utxo/:txnid/:vout", t.getUtxo)

	pubMux.GET("/pool/balance", t.getPoolBalance)

	// GET /txn/qr.png?hex=... -> png for sharing a raw txn between wallets
	pubMux.GET("/txn/qr.png", t.getTxnQR)

	return
}

// validateTxn reports every ledger rule the posted transaction violates.
// An invalid transaction is a 200 response with valid=false: rule
// violations are results, not request errors.
func (t WebAPI) validateTxn(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
	var tx wire.Txn
	err := json.NewDecoder(r.Body).Decode(&tx)
	if err != nil {
		sendBadRequest(w, fmt.Sprintf("bad request body (expecting JSON): %v", err))
		return
	}
	result, err := t.api.ValidateTxn(tx)
	if err != nil {
		sendError(w, "ValidateTxn", err)
		return
	}
	sendResponse(w, result)
}

func (t WebAPI) submitTxn(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
	var tx wire.Txn
	err := json.NewDecoder(r.Body).Decode(&tx)
	if err != nil {
		sendBadRequest(w, fmt.Sprintf("bad request body (expecting JSON): %v", err))
		return
	}
	result, err := t.api.SubmitTxn(tx)
	if err != nil {
		sendError(w, "SubmitTxn", err)
		return
	}
	sendResponse(w, result)
}

type DecodeTxnRequest struct {
	Hex string `json:"hex"`
}

func (t WebAPI) decodeTxn(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
	var o DecodeTxnRequest
	err := json.NewDecoder(r.Body).Decode(&o)
	if err != nil {
		sendBadRequest(w, fmt.Sprintf("bad request body (expecting JSON): %v", err))
		return
	}
	tx, err := t.api.DecodeTxn(o.Hex)
	if err != nil {
		sendError(w, "DecodeTxn", err)
		return
	}
	sendResponse(w, tx)
}

type EncodeTxnResponse struct {
	Hex string `json:"hex"`
}

func (t WebAPI) encodeTxn(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
	var tx wire.Txn
	err := json.NewDecoder(r.Body).Decode(&tx)
	if err != nil {
		sendBadRequest(w, fmt.Sprintf("bad request body (expecting JSON): %v", err))
		return
	}
	hexStr, err := t.api.EncodeTxn(tx)
	if err != nil {
		sendError(w, "EncodeTxn", err)
		return
	}
	sendResponse(w, EncodeTxnResponse{Hex: hexStr})
}

type AddUtxoRequest struct {
	TxID   string `json:"txid"`
	VOut   uint32 `json:"vout"`
	Owner  string `json:"owner"`
	Amount uint64 `json:"amount"`
}

func (t WebAPI) addUtxo(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
	var o AddUtxoRequest
	err := json.NewDecoder(r.Body).Decode(&o)
	if err != nil {
		sendBadRequest(w, fmt.Sprintf("bad request body (expecting JSON): %v", err))
		return
	}
	ref := wire.UtxoRef{TxID: o.TxID, VOut: o.VOut}
	err = t.api.AddUtxo(ref, giga.UnspentOutput{Owner: o.Owner, Amount: o.Amount})
	if err != nil {
		sendError(w, "AddUtxo", err)
		return
	}
	sendResponse(w, "Added unspent output")
}

func (t WebAPI) getUtxo(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
	txID := p.ByName("txnid")
	if txID == "" {
		sendBadRequest(w, "missing txn ID in URL")
		return
	}
	vOut, err := strconv.ParseUint(p.ByName("vout"), 10, 32)
	if err != nil {
		sendBadRequest(w, "vout invalid, must convert to uint32")
		return
	}
	utxo, err := t.api.GetUtxo(txID, uint32(vOut))
	if err != nil {
		sendError(w, "GetUtxo", err)
		return
	}
	sendResponse(w, utxo)
}

func (t WebAPI) getPoolBalance(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
	bal, err := t.api.GetPoolBalance()
	if err != nil {
		sendError(w, "GetPoolBalance", err)
		return
	}
	sendResponse(w, bal)
}

// getTxnQR renders an encoded transaction as a QR code so it can be
// passed between wallets without a network path. The hex must decode
// as a well-formed txn: we do not serve QR codes of corrupt data.
func (t WebAPI) getTxnQR(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
	qs := r.URL.Query()
	hexStr := qs.Get("hex")
	if hexStr == "" {
		sendBadRequest(w, "missing hex in URL query")
		return
	}
	if _, err := t.api.DecodeTxn(hexStr); err != nil {
		sendError(w, "DecodeTxn", err)
		return
	}
	qr, err := GenerateQRCodePNG(fmt.Sprintf("gigaledger:txn?hex=%s", hexStr), 512)
	if err != nil {
		sendError(w, "GenerateQRCodePNG", err)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	// the image for a given hex never changes.
	w.Header().Set("Cache-Control", "max-age=900, immutable")
	w.Write(qr)
}
