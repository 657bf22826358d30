/*
Package contracts reads compiled Lost-and-Found contracts and provides
access to them.
*/
package contracts

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"

	"github.com/nspcc-dev/neo-go/pkg/io"
	"github.com/nspcc-dev/neo-go/pkg/smartcontract/manifest"
	"github.com/nspcc-dev/neo-go/pkg/smartcontract/nef"
)

const (
	depositorDir = "depositor"
	ledgerDir    = "lostfound"

	nefName      = "contract.nef"
	manifestName = "manifest.json"
)

// Contract groups information about a compiled Neo contract.
type Contract struct {
	NEF      nef.File
	Manifest manifest.Manifest
}

var (
	errInvalidNEF      = errors.New("invalid NEF")
	errInvalidManifest = errors.New("invalid manifest")

	allContracts = []string{
		depositorDir,
		ledgerDir,
	}
)

// GetAll reads the compiled Lost-and-Found contracts from the given file
// system, e.g. os.DirFS over the build output directory. Each contract is
// expected in its own subdirectory holding contract.nef and manifest.json
// files produced by the compiler. Contracts are returned in the order
// they're supposed to be deployed starting from the Depositor.
func GetAll(_fs fs.FS) ([]Contract, error) {
	return read(_fs, allContracts)
}

// read loads contracts from the provided file system.
func read(_fs fs.FS, dirs []string) ([]Contract, error) {
	var res = make([]Contract, 0, len(dirs))

	for i := range dirs {
		c, err := readContractFromDir(_fs, dirs[i])
		if err != nil {
			return nil, fmt.Errorf("read contract %s: %w", dirs[i], err)
		}

		res = append(res, c)
	}

	return res, nil
}

func readContractFromDir(_fs fs.FS, dir string) (Contract, error) {
	var c Contract

	// fs.FS uses "/" even on Windows, so filepath.Join() is not applicable.
	fNEF, err := _fs.Open(dir + "/" + nefName)
	if err != nil {
		return c, fmt.Errorf("open NEF: %w", err)
	}
	defer fNEF.Close()

	fManifest, err := _fs.Open(dir + "/" + manifestName)
	if err != nil {
		return c, fmt.Errorf("open manifest: %w", err)
	}
	defer fManifest.Close()

	bReader := io.NewBinReaderFromIO(fNEF)
	c.NEF.DecodeBinary(bReader)
	if bReader.Err != nil {
		return c, fmt.Errorf("%w: %w", errInvalidNEF, bReader.Err)
	}

	err = json.NewDecoder(fManifest).Decode(&c.Manifest)
	if err != nil {
		return c, fmt.Errorf("%w: %w", errInvalidManifest, err)
	}

	return c, nil
}
