// Command dump prints the redeemable tickets of a deployed Lost-and-Found
// Ledger contract.
package main

import (
	"flag"
	"fmt"
	"log"
	"math/big"
	"os"

	"github.com/nspcc-dev/neo-go/pkg/encoding/address"
	"github.com/nspcc-dev/neo-go/pkg/util"

	"github.com/Flowtyio/lost-and-found/rpc/lostfound"
)

func main() {
	neoRPCEndpoint := flag.String("rpc", "", "Network address of the Neo RPC server")
	contract := flag.String("contract", "", "Address of the Lost-and-Found Ledger contract")
	redeemer := flag.String("redeemer", "", "Address of the redeemer account to dump")

	flag.Parse()

	switch {
	case *neoRPCEndpoint == "":
		log.Fatal("missing Neo RPC endpoint")
	case *contract == "":
		log.Fatal("missing contract address")
	case *redeemer == "":
		log.Fatal("missing redeemer address")
	}

	contractHash, err := util.Uint160DecodeStringLE(*contract)
	if err != nil {
		log.Fatal(fmt.Errorf("decode contract address: %w", err))
	}

	redeemerHash, err := address.StringToUint160(*redeemer)
	if err != nil {
		log.Fatal(fmt.Errorf("decode redeemer address: %w", err))
	}

	err = _dump(*neoRPCEndpoint, contractHash, redeemerHash)
	if err != nil {
		log.Fatal(err)
	}
}

func _dump(neoBlockchainRPCEndpoint string, contract, redeemer util.Uint160) error {
	b, err := newRemoteBlockchain(neoBlockchainRPCEndpoint)
	if err != nil {
		return fmt.Errorf("init remote blockchain: %w", err)
	}

	defer b.close()

	reader := lostfound.NewReader(b.invoker, contract)

	fee, err := reader.StorageFee()
	if err != nil {
		return fmt.Errorf("get storage fee: %w", err)
	}

	count, err := reader.TicketCount(redeemer)
	if err != nil {
		return fmt.Errorf("get ticket count: %w", err)
	}

	fmt.Printf("ledger %s, storage fee %s, redeemer %s, %s ticket(s)\n",
		contract.StringLE(), fee, address.Uint160ToString(redeemer), count)

	types, err := reader.RedeemableTypes(redeemer)
	if err != nil {
		return fmt.Errorf("list redeemable types: %w", err)
	}

	for _, asset := range types {
		balance, err := reader.BinBalance(redeemer, asset)
		if err != nil {
			return fmt.Errorf("get bin balance of asset %s: %w", asset.StringLE(), err)
		}

		fmt.Printf("bin %s: balance %s\n", asset.StringLE(), balance)
	}

	tickets, err := reader.BorrowAllTickets(redeemer)
	if err != nil {
		return fmt.Errorf("list tickets: %w", err)
	}

	w := os.Stdout
	for _, t := range tickets {
		if t.Amount.Sign() != 0 {
			fmt.Fprintf(w, "ticket #%s: asset %s, amount %s, payer %s, fee %s\n",
				t.ID, t.Asset.StringLE(), t.Amount, address.Uint160ToString(t.Payer), t.Fee)
			continue
		}

		fmt.Fprintf(w, "ticket #%s: asset %s, item %x (%s), payer %s, fee %s\n",
			t.ID, t.Asset.StringLE(), t.TokenID, t.Name, address.Uint160ToString(t.Payer), t.Fee)
	}

	if len(tickets) != 0 {
		total := new(big.Int).Mul(fee, big.NewInt(int64(len(tickets))))
		fmt.Fprintf(w, "storage fees held: %s\n", total)
	}

	return nil
}
