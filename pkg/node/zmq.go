package node

import (
	"context"
	"encoding/hex"
	"fmt"
	"syscall"
	"time"

	giga "github.com/dogecoinfoundation/gigaledger/pkg"
	"github.com/dogecoinfoundation/gigaledger/pkg/wire"
	"github.com/pebbe/zmq4"
)

// TxnReceiver receives raw transactions over ZMQ from a ledger node.
// CAUTION: the protocol is not authenticated!
// CAUTION: every received txn is treated as hostile input: it is
// decoded with the bounds-checked codec and validated against the
// pool; nothing is applied to the pool from this feed.
type TxnReceiver struct {
	bus         giga.MessageBus
	api         giga.API
	sock        *zmq4.Socket
	nodeAddress string
}

func NewTxnReceiver(bus giga.MessageBus, api giga.API, config giga.Config) (*TxnReceiver, error) {
	node, ok := config.Node[config.Gigaledger.Node]
	if !ok {
		return nil, fmt.Errorf("no node config named %q", config.Gigaledger.Node)
	}
	return &TxnReceiver{
		bus:         bus,
		api:         api,
		nodeAddress: fmt.Sprintf("tcp://%s:%d", node.Host, node.ZMQPort),
	}, nil
}

func (z *TxnReceiver) Run(started, stopped chan bool, stop chan context.Context) error {
	sock, err := zmq4.NewSocket(zmq4.SUB)
	if err != nil {
		return err
	}
	sock.SetRcvtimeo(2 * time.Second)
	z.sock = sock
	z.bus.Send(giga.SYS_STARTUP, fmt.Sprintf("ZMQ: connecting to: %s", z.nodeAddress))
	err = sock.Connect(z.nodeAddress)
	if err != nil {
		return err
	}
	err = sock.SetSubscribe("rawtx")
	if err != nil {
		return err
	}
	go func() {
		started <- true

		for {
			// Handle shutdown
			select {
			case <-stop:
				sock.Close()
				close(stopped)
				return
			default:
				// fall through to zmq recv
			}

			msg, err := z.sock.RecvMessageBytes(0)
			if err != nil {
				switch err := err.(type) {
				case zmq4.Errno:
					if err == zmq4.Errno(syscall.ETIMEDOUT) {
						// handle timeouts by looping again
						continue
					} else if err == zmq4.Errno(syscall.EAGAIN) {
						continue
					} else {
						// handle other ZeroMQ error codes
						z.bus.Send(giga.SYS_ERR, fmt.Sprintf("ZMQ err: %s", err))
						continue
					}
				default:
					// handle other Go errors
					panic(fmt.Sprintf("zmq error: %v\n", err))
				}
			}
			tag := string(msg[0])
			switch tag {
			case "rawtx":
				z.receiveTxn(msg[1])
			default:
				fmt.Printf("ZMQ=> %s ??\n", tag)
			}
		}

	}()
	return nil
}

func (z *TxnReceiver) receiveTxn(raw []byte) {
	tx, err := wire.DecodeTxn(raw)
	if err != nil {
		z.bus.Send(giga.TXN_DECODE_ERR, fmt.Sprintf("ZMQ: discarding rawtx %s: %v", hex.EncodeToString(raw), err))
		return
	}
	fmt.Printf("ZMQ=> TXN id=%s\n", tx.ID)
	// validation outcome goes on the bus (TXN_VALID / TXN_INVALID)
	_, err = z.api.ValidateTxn(tx)
	if err != nil {
		z.bus.Send(giga.SYS_ERR, fmt.Sprintf("ZMQ: cannot validate txn %s: %v", tx.ID, err))
	}
}
