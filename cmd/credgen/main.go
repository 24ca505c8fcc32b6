// Command credgen is a utility for working with PS anonymous credentials:
// generating issuer keys, issuing credentials, and creating/verifying
// selective-disclosure presentations.
package main

import (
	"crypto/rand"
	"encoding/json"
	"flag"
	"fmt"
	"math/big"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/anupsv/ps-anoncred/pkg/curve"
	"github.com/anupsv/ps-anoncred/pkg/presentation"
	"github.com/anupsv/ps-anoncred/pkg/ps"
)

// Command represents a subcommand.
type Command struct {
	Name        string
	Description string
	Execute     func(args []string) error
}

// credentialFile is the on-disk shape a "credgen issue" run produces and
// "credgen present"/"credgen verify" consume: a signature plus its claim
// values in slot order.
type credentialFile struct {
	PublicKey *ps.PublicKey  `json:"publicKey"`
	Signature *ps.Signature  `json:"signature"`
	Claims    []curve.Scalar `json:"claims"`
}

// presentationFile is the JSON shape "credgen present" writes and
// "credgen verify-presentation" reads. It carries just enough to rebuild
// the schema credgen itself used, since this CLI only ever builds a single
// signature statement plus an optional range statement over one claim.
type presentationFile struct {
	Reveal       []int                      `json:"reveal"`
	RangeClaim   *int                       `json:"rangeClaim,omitempty"`
	RangeLower   int64                      `json:"rangeLower,omitempty"`
	RangeUpper   int64                      `json:"rangeUpper,omitempty"`
	Nonce        string                     `json:"nonce"`
	Presentation *presentation.Presentation `json:"presentation"`
}

func main() {
	commands := []Command{
		{Name: "keygen", Description: "Generate an issuer key pair for a fixed claim count", Execute: cmdKeyGen},
		{Name: "issue", Description: "Issue a credential over a list of integer claims", Execute: cmdIssue},
		{Name: "verify", Description: "Verify a credential's signature", Execute: cmdVerify},
		{Name: "present", Description: "Build a selective-disclosure presentation from a credential", Execute: cmdPresent},
		{Name: "verify-presentation", Description: "Verify a presentation against an issuer public key", Execute: cmdVerifyPresentation},
	}

	if len(os.Args) < 2 {
		showHelp(commands)
		os.Exit(1)
	}

	cmdName := os.Args[1]
	for _, cmd := range commands {
		if cmd.Name == cmdName {
			if err := cmd.Execute(os.Args[2:]); err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				os.Exit(1)
			}
			return
		}
	}

	fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", cmdName)
	showHelp(commands)
	os.Exit(1)
}

func showHelp(commands []Command) {
	fmt.Println("credgen - issue and present PS anonymous credentials")
	fmt.Println("\nUsage:")
	fmt.Println("  credgen <command> [options]")
	fmt.Println("\nAvailable Commands:")
	for _, cmd := range commands {
		fmt.Printf("  %-20s %s\n", cmd.Name, cmd.Description)
	}
	fmt.Println("\nRun 'credgen <command> -h' for flag details")
}

func readJSONFile(path string, v interface{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("parsing %s: %w", path, err)
	}
	return nil
}

func writeJSONFile(path string, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling %s: %w", path, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

func parseIntList(s string) ([]int64, error) {
	if s == "" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	out := make([]int64, len(parts))
	for i, p := range parts {
		v, err := strconv.ParseInt(strings.TrimSpace(p), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid integer %q: %w", p, err)
		}
		out[i] = v
	}
	return out, nil
}

func cmdKeyGen(args []string) error {
	fs := flag.NewFlagSet("keygen", flag.ExitOnError)
	claimCount := fs.Int("claims", 5, "number of claim slots the key supports")
	outPrefix := fs.String("out", "issuer", "output file prefix; writes <prefix>.secret.json and <prefix>.public.json")
	fs.Parse(args)

	if *claimCount < 1 {
		return fmt.Errorf("claim count must be at least 1")
	}

	kp, err := ps.GenerateKeyPair(*claimCount, rand.Reader)
	if err != nil {
		return fmt.Errorf("generating key pair: %w", err)
	}

	if err := writeJSONFile(*outPrefix+".secret.json", kp.SecretKey); err != nil {
		return err
	}
	if err := writeJSONFile(*outPrefix+".public.json", kp.PublicKey); err != nil {
		return err
	}

	fmt.Printf("issuer key pair for %d claims written to %s.secret.json / %s.public.json\n", *claimCount, *outPrefix, *outPrefix)
	return nil
}

func cmdIssue(args []string) error {
	fs := flag.NewFlagSet("issue", flag.ExitOnError)
	secretKeyFile := fs.String("secret-key", "issuer.secret.json", "issuer secret key file")
	publicKeyFile := fs.String("public-key", "issuer.public.json", "issuer public key file")
	claimsFlag := fs.String("claims", "", "comma-separated list of integer claim values, in slot order")
	outputFile := fs.String("output", "credential.json", "output credential file")
	fs.Parse(args)

	var sk ps.SecretKey
	if err := readJSONFile(*secretKeyFile, &sk); err != nil {
		return err
	}
	var pk ps.PublicKey
	if err := readJSONFile(*publicKeyFile, &pk); err != nil {
		return err
	}

	rawClaims, err := parseIntList(*claimsFlag)
	if err != nil {
		return err
	}
	if len(rawClaims) != pk.MessageCount() {
		return fmt.Errorf("key supports %d claims, got %d", pk.MessageCount(), len(rawClaims))
	}
	claims := make([]curve.Scalar, len(rawClaims))
	for i, v := range rawClaims {
		claims[i] = big.NewInt(v)
	}

	sig, err := ps.Sign(&sk, &pk, claims, rand.Reader)
	if err != nil {
		return fmt.Errorf("signing claims: %w", err)
	}

	cred := credentialFile{PublicKey: &pk, Signature: sig, Claims: claims}
	if err := writeJSONFile(*outputFile, &cred); err != nil {
		return err
	}

	fmt.Printf("credential over %d claims issued to %s\n", len(claims), *outputFile)
	return nil
}

func cmdVerify(args []string) error {
	fs := flag.NewFlagSet("verify", flag.ExitOnError)
	credentialFilePath := fs.String("credential", "credential.json", "credential file to verify")
	fs.Parse(args)

	var cred credentialFile
	if err := readJSONFile(*credentialFilePath, &cred); err != nil {
		return err
	}

	if err := ps.Verify(cred.PublicKey, cred.Signature, cred.Claims); err != nil {
		return fmt.Errorf("credential verification failed: %w", err)
	}

	fmt.Println("credential verified successfully")
	return nil
}

func cmdPresent(args []string) error {
	fs := flag.NewFlagSet("present", flag.ExitOnError)
	credentialFilePath := fs.String("credential", "credential.json", "credential file")
	revealFlag := fs.String("reveal", "", "comma-separated claim indices to reveal")
	rangeClaim := fs.Int("range-claim", -1, "claim index to prove a range over (-1 disables)")
	rangeLower := fs.Int64("range-lower", 0, "inclusive lower bound for the range statement")
	rangeUpper := fs.Int64("range-upper", 0, "inclusive upper bound for the range statement")
	nonceFlag := fs.String("nonce", "credgen-nonce", "verifier-supplied nonce")
	outputFile := fs.String("output", "presentation.json", "output presentation file")
	fs.Parse(args)

	var cred credentialFile
	if err := readJSONFile(*credentialFilePath, &cred); err != nil {
		return err
	}

	revealIndices, err := parseIntList(*revealFlag)
	if err != nil {
		return err
	}

	schema := presentation.NewSchema()
	if err := schema.Add("cred", presentation.SignatureStatement{}); err != nil {
		return err
	}

	disclosures := presentation.Disclosures{"cred": map[int]presentation.ProofMessage{}}
	for _, idx := range revealIndices {
		disclosures["cred"][int(idx)] = presentation.ProofMessage{Kind: presentation.Revealed}
	}

	if *rangeClaim >= 0 {
		if err := schema.Add("commit", presentation.CommitmentStatement{RefID: "cred", Claim: *rangeClaim}); err != nil {
			return err
		}
		if err := schema.Add("range", presentation.RangeStatement{
			SignatureID: "cred", CommitmentID: "commit", Claim: *rangeClaim,
			Lower: *rangeLower, Upper: *rangeUpper,
		}); err != nil {
			return err
		}
	}

	credentials := map[string]presentation.Credential{
		"cred": presentation.SignatureCredential{Signature: cred.Signature, PublicKey: cred.PublicKey, Claims: cred.Claims},
	}

	nonce := []byte(*nonceFlag)
	p, err := presentation.Create(schema, credentials, disclosures, nonce, rand.Reader)
	if err != nil {
		return fmt.Errorf("building presentation: %w", err)
	}

	out := presentationFile{Reveal: intSliceOf(revealIndices), Nonce: *nonceFlag, Presentation: p}
	if *rangeClaim >= 0 {
		claim := *rangeClaim
		out.RangeClaim = &claim
		out.RangeLower, out.RangeUpper = *rangeLower, *rangeUpper
	}

	if err := writeJSONFile(*outputFile, &out); err != nil {
		return err
	}

	fmt.Printf("presentation written to %s\n", *outputFile)
	return nil
}

func cmdVerifyPresentation(args []string) error {
	fs := flag.NewFlagSet("verify-presentation", flag.ExitOnError)
	presentationFilePath := fs.String("presentation", "presentation.json", "presentation file")
	publicKeyFile := fs.String("public-key", "issuer.public.json", "issuer public key file")
	fs.Parse(args)

	var pf presentationFile
	if err := readJSONFile(*presentationFilePath, &pf); err != nil {
		return err
	}
	var pk ps.PublicKey
	if err := readJSONFile(*publicKeyFile, &pk); err != nil {
		return err
	}

	schema := presentation.NewSchema()
	if err := schema.Add("cred", presentation.SignatureStatement{}); err != nil {
		return err
	}
	if pf.RangeClaim != nil {
		if err := schema.Add("commit", presentation.CommitmentStatement{RefID: "cred", Claim: *pf.RangeClaim}); err != nil {
			return err
		}
		if err := schema.Add("range", presentation.RangeStatement{
			SignatureID: "cred", CommitmentID: "commit", Claim: *pf.RangeClaim,
			Lower: pf.RangeLower, Upper: pf.RangeUpper,
		}); err != nil {
			return err
		}
	}

	keys := presentation.VerifierKeys{PublicKeys: map[string]*ps.PublicKey{"cred": &pk}}
	if err := presentation.Verify(schema, keys, pf.Presentation, []byte(pf.Nonce)); err != nil {
		return fmt.Errorf("presentation verification failed: %w", err)
	}

	fmt.Println("presentation verified successfully")
	if len(pf.Presentation.DisclosedMessages["cred"]) > 0 {
		fmt.Println("disclosed claims:")
		indices := make([]int, 0, len(pf.Presentation.DisclosedMessages["cred"]))
		for idx := range pf.Presentation.DisclosedMessages["cred"] {
			indices = append(indices, idx)
		}
		sort.Ints(indices)
		for _, idx := range indices {
			fmt.Printf("  [%d] = %s\n", idx, pf.Presentation.DisclosedMessages["cred"][idx].String())
		}
	}
	return nil
}

func intSliceOf(in []int64) []int {
	out := make([]int, len(in))
	for i, v := range in {
		out[i] = int(v)
	}
	return out
}
