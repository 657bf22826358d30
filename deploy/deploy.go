// Package deploy provides Lost-and-Found contracts deployment routine.
package deploy

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/nspcc-dev/neo-go/pkg/core/state"
	"github.com/nspcc-dev/neo-go/pkg/rpcclient/actor"
	"github.com/nspcc-dev/neo-go/pkg/rpcclient/management"
	"github.com/nspcc-dev/neo-go/pkg/smartcontract/manifest"
	"github.com/nspcc-dev/neo-go/pkg/smartcontract/nef"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/vm/vmstate"
	"github.com/nspcc-dev/neo-go/pkg/wallet"
	"go.uber.org/zap"

	rpcdepositor "github.com/Flowtyio/lost-and-found/rpc/depositor"
)

// Blockchain groups services provided by particular Neo blockchain network
// that are required for the contracts deployment.
type Blockchain interface {
	// RPCActor groups functions needed to compose and send transactions to the
	// blockchain.
	actor.RPCActor

	// GetContractStateByHash returns network state of the smart contract by its
	// address. GetContractStateByHash returns error with 'Unknown contract'
	// substring if requested contract is missing.
	GetContractStateByHash(util.Uint160) (*state.Contract, error)
}

// CommonDeployPrm groups common deployment parameters of the smart contract.
type CommonDeployPrm struct {
	NEF      nef.File
	Manifest manifest.Manifest
}

// DepositorContractPrm groups deployment parameters of the Depositor contract.
type DepositorContractPrm struct {
	Common CommonDeployPrm
}

// LedgerContractPrm groups deployment parameters of the Lost-and-Found Ledger
// contract.
type LedgerContractPrm struct {
	Common CommonDeployPrm

	// Flat GAS fee charged per created ticket.
	StorageFee int64
}

// Prm groups all parameters of the Lost-and-Found deployment procedure.
type Prm struct {
	// Writes progress into the log.
	Logger *zap.Logger

	// Particular Neo blockchain instance.
	Blockchain Blockchain

	// Committee account used for transaction signing (must be unlocked). The
	// account becomes the owner of the deployed contracts' update access.
	CommitteeAccount *wallet.Account

	DepositorContract DepositorContractPrm
	LedgerContract    LedgerContractPrm
}

// Addresses carries the addresses of the deployed contracts.
type Addresses struct {
	Depositor util.Uint160
	Ledger    util.Uint160
}

// Deploy deploys the Depositor and the Ledger contracts on the given
// blockchain and links them to each other. Deploy is idempotent: contracts
// already present on the chain are not deployed again, an already set ledger
// link is kept.
func Deploy(ctx context.Context, prm Prm) (Addresses, error) {
	var res Addresses

	act, err := actor.NewSimple(prm.Blockchain, prm.CommitteeAccount)
	if err != nil {
		return res, fmt.Errorf("init transaction sender from the committee account: %w", err)
	}

	mgmt := management.New(act)

	res.Depositor = state.CreateContractHash(act.Sender(),
		prm.DepositorContract.Common.NEF.Checksum, prm.DepositorContract.Common.Manifest.Name)
	res.Ledger = state.CreateContractHash(act.Sender(),
		prm.LedgerContract.Common.NEF.Checksum, prm.LedgerContract.Common.Manifest.Name)

	prm.Logger.Info("deploying depositor contract...", zap.Stringer("address", res.Depositor))

	err = deployContract(prm.Blockchain, act, mgmt, res.Depositor, prm.DepositorContract.Common, nil)
	if err != nil {
		return res, fmt.Errorf("deploy depositor contract: %w", err)
	}

	if err = ctx.Err(); err != nil {
		return res, err
	}

	prm.Logger.Info("deploying lost-and-found contract...",
		zap.Stringer("address", res.Ledger), zap.Int64("storage fee", prm.LedgerContract.StorageFee))

	err = deployContract(prm.Blockchain, act, mgmt, res.Ledger, prm.LedgerContract.Common,
		[]any{res.Depositor, prm.LedgerContract.StorageFee})
	if err != nil {
		return res, fmt.Errorf("deploy lost-and-found contract: %w", err)
	}

	if err = ctx.Err(); err != nil {
		return res, err
	}

	prm.Logger.Info("linking lost-and-found contract to the depositor...")

	err = linkLedgerContract(act, res.Depositor, res.Ledger)
	if err != nil {
		return res, fmt.Errorf("link lost-and-found contract: %w", err)
	}

	prm.Logger.Info("contracts are deployed and linked")

	return res, nil
}

func deployContract(b Blockchain, act *actor.Actor, mgmt *management.Contract, addr util.Uint160, prm CommonDeployPrm, data any) error {
	_, err := b.GetContractStateByHash(addr)
	if err == nil {
		return nil
	}
	if !strings.Contains(err.Error(), "Unknown contract") {
		return fmt.Errorf("get contract state: %w", err)
	}

	aer, err := act.Wait(mgmt.Deploy(&prm.NEF, &prm.Manifest, data))
	if err != nil {
		return fmt.Errorf("deploy transaction: %w", err)
	}
	if aer.VMState.HasFlag(vmstate.Fault) {
		return fmt.Errorf("deploy transaction faulted: %s", aer.FaultException)
	}

	return nil
}

func linkLedgerContract(act *actor.Actor, addrDepositor, addrLedger util.Uint160) error {
	aer, err := act.Wait(rpcdepositor.New(act, addrDepositor).SetLedgerContract(addrLedger))
	if err != nil {
		return fmt.Errorf("setLedgerContract transaction: %w", err)
	}
	if aer.VMState.HasFlag(vmstate.Fault) {
		if strings.Contains(aer.FaultException, "ledger contract is already set") {
			return nil
		}
		return errors.New(aer.FaultException)
	}

	return nil
}
