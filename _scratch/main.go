package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/nspcc-dev/neo-go/pkg/compiler"
)

func main() {
	dir := os.Args[1]
	yml := os.Args[2]
	_, err := compiler.CompileAndSave(dir, &compiler.Options{
		ConfigFile:   yml,
		Name:         "x",
		DebugInfo:    "/tmp/disasm/dbg.json",
		Outfile:      "/tmp/disasm/out.nef",
		ManifestFile: "/tmp/disasm/manifest.json",
	})
	if err != nil {
		fmt.Println("compile error:", err)
		os.Exit(1)
	}
	d, _ := os.ReadFile("/tmp/disasm/dbg.json")
	var dbg map[string]interface{}
	json.Unmarshal(d, &dbg)
	for _, m := range dbg["methods"].([]interface{}) {
		mm := m.(map[string]interface{})
		fmt.Println(mm["name"], mm["range"])
	}
}
