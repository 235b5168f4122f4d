// Command keygen generates a new node signing key and saves it to an
// encrypted keystore file.
//
// Usage:
//
//	keygen --out=node.keystore
package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"

	"github.com/vectra-chain/vectra-core/internal/wallet"
	"golang.org/x/term"
)

func main() {
	out := flag.String("out", "node.keystore", "path to write the encrypted keystore to")
	flag.Parse()

	mnemonic, ks, err := wallet.Generate()
	if err != nil {
		fmt.Fprintf(os.Stderr, "generate keystore: %v\n", err)
		os.Exit(1)
	}

	passphrase, err := readPassphrase()
	if err != nil {
		fmt.Fprintf(os.Stderr, "read passphrase: %v\n", err)
		os.Exit(1)
	}

	if err := wallet.Save(*out, ks, passphrase, wallet.DefaultParams()); err != nil {
		fmt.Fprintf(os.Stderr, "save keystore: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("keystore written to %s\n", *out)
	fmt.Printf("public key: %x\n", ks.SigningKey().Public())
	fmt.Println()
	fmt.Println("recovery mnemonic (write this down, it is not stored anywhere):")
	fmt.Println(mnemonic)
}

func readPassphrase() ([]byte, error) {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		reader := bufio.NewReader(os.Stdin)
		line, err := reader.ReadString('\n')
		if err != nil {
			return nil, err
		}
		return []byte(line), nil
	}

	fmt.Print("passphrase: ")
	passphrase, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Println()
	if err != nil {
		return nil, err
	}
	return passphrase, nil
}
