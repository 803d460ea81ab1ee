// Command hashpass computes an Argon2id password digest for seeding the
// users CSV file by hand, and verifies a password against an existing
// digest. The password is read without echo.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/iudanet/fortress/internal/crypto"
)

func main() {
	verify := flag.Bool("verify", false, "Verify a password against a digest instead of hashing")
	flag.Parse()

	if err := run(*verify); err != nil {
		fmt.Fprintf(os.Stderr, "hashpass: %v\n", err)
		os.Exit(1)
	}
}

func run(verify bool) error {
	hasher := crypto.NewPasswordHasher()

	password, err := readPassword("Password: ")
	if err != nil {
		return err
	}

	if !verify {
		digest, err := hasher.Hash(password)
		if err != nil {
			return err
		}
		fmt.Println(digest)
		return nil
	}

	digest, err := readLine("Digest: ")
	if err != nil {
		return err
	}

	ok, err := hasher.Verify(password, digest)
	if err != nil {
		return err
	}
	if !ok {
		fmt.Println("password does NOT match")
		os.Exit(1)
	}
	fmt.Println("password matches")
	return nil
}

func readPassword(prompt string) (string, error) {
	fmt.Print(prompt)
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		// Piped input, fall back to a plain line read
		return readLine("")
	}
	pwBytes, err := term.ReadPassword(fd)
	fmt.Println()
	if err != nil {
		return "", err
	}
	return string(pwBytes), nil
}

func readLine(prompt string) (string, error) {
	fmt.Print(prompt)
	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(line), nil
}
