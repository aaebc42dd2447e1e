// OpenRDAP
// Copyright 2017 Tom Harwood
// MIT License, see the LICENSE file.

package rdap

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/mitchellh/go-homedir"

	"github.com/openrdap/rdap/bootstrap"
	"github.com/openrdap/rdap/bootstrap/cache"
	"github.com/openrdap/rdap/check"
	"github.com/openrdap/rdap/internal/rdapenv"
	"github.com/openrdap/rdap/jcard"
	"github.com/openrdap/rdap/resolver"

	kingpin "gopkg.in/alecthomas/kingpin.v2"
)

var (
	version   = "OpenRDAP v0.0.1"
	usageText = version + `
(www.openrdap.org)

Usage: rdap [OPTIONS] DOMAIN|IP|ASN|ENTITY|NAMESERVER|RDAP-URL
  e.g. rdap example.cz
       rdap 192.0.2.0
       rdap 2001:db8::
       rdap AS2856
       rdap https://rdap.nic.cz/domain/example.cz

       rdap --json https://rdap.nic.cz/domain/example.cz
       rdap -s https://rdap.nic.cz -t help
       rdap --check example.cz

Options:
  -h, --help          Show help message.
  -v, --verbose       Print verbose messages on STDERR.

  -T, --timeout=SECS  Timeout after SECS seconds (default: 30, or $RDAP_TIMEOUT).
  -k, --insecure      Disable SSL certificate verification.

Output Options:
      --text          Output WHOIS style, plain text format (default, or $RDAP_OUTPUT).
  -j, --json          Output JSON, pretty-printed format.
  -J, --compact       Output JSON, compact (one line) format.
  -r, --raw           Output the raw server response.
      --to-jscontact=MODE  Convert entity contacts to JSContact: none|also|only
                           (default: none, or $RDAP_SRV_JSCONTACT_CONVERSION).

Conformance Checking:
      --check           Run the conformance checker and print its findings.
      --class=CLASS     Only print findings of CLASS (repeatable):
                        informational, specification-note, standards-warning,
                        standards-error, cidr0-error, icann-extension-error.
      --error-on-checks Exit with a non-zero status if any printed finding
                        class is non-empty.
      --profile-group=GROUP       ICANN RDAP profile to check against:
                                  gtld|nro|nro-asn (default: none).
      --required-extension=EXT   Extension rdapConformance must list
                                  (repeatable).
      --registered-extension=EXT Extension id considered registered
                                  (repeatable; unset accepts any).
      --allow-unregistered-extensions  Don't flag unregistered
                                        rdapConformance entries.

Link-Target Traversal:
      --link-target=REL  Follow links of this relation (or preset:
                          registry, registrar, up, down, top, bottom)
                          after the initial response (repeatable).
      --link-min-depth=N Findings are only reported at or beyond this hop
                          depth (default: 0).
      --link-max-depth=N Stop traversal after this many hops (default: 10).
      --link-only-last   Show only the last hop's response, not the chain.

Advanced options (query):
  -s  --server=URL    RDAP server to query.
  -t  --type=TYPE     RDAP query type. Normally auto-detected. The types are:
                      - ip
                      - domain
                      - autnum
                      - nameserver
                      - entity
                      - help
                      - url
                      - domain-search
                      - domain-search-by-nameserver
                      - domain-search-by-nameserver-ip
                      - nameserver-search
                      - nameserver-search-by-ip
                      - entity-search
                      - entity-search-by-handle
                      The servers for domain, ip, autnum, url queries can be
                      determined automatically. Otherwise, the RDAP server
                      (--server=URL) must be specified.

Advanced options (bootstrapping):
      --cache-dir=DIR Bootstrap cache directory to use. Specify empty string
                      to disable bootstrap caching. The directory is created
                      automatically as needed. (default: $HOME/.openrdap).
      --bs-url=URL    Bootstrap service URL (default: https://data.iana.org/rdap,
                      or $RDAP_BASE_URL)
      --bs-ttl=SECS   Bootstrap cache time in seconds (default: 3600)
`
)

// CLIOptions specifies options for the command line client.
type CLIOptions struct {
	// Sandbox mode disables the --cache-dir option, to prevent arbitrary writes to
	// the file system.
	//
	// This is used for https://www.openrdap.org/demo.
	Sandbox bool
}

// RunCLI runs the OpenRDAP command line client.
//
// |args| are the command line arguments to use (normally os.Args[1:]).
// |stdout| and |stderr| are the io.Writers for STDOUT/STDERR.
// |options| specifies extra options.
//
// Returns the program exit code.
func RunCLI(args []string, stdout io.Writer, stderr io.Writer, options CLIOptions) int {
	start := time.Now()

	env, err := rdapenv.Load(defaultEnvFilePath())
	if err != nil {
		printError(stderr, fmt.Sprintf("Error reading rdap.env: %s", err))
		return 40
	}

	app := kingpin.New("rdap", "RDAP command-line client")
	app.HelpFlag.Short('h')
	app.UsageTemplate(usageText)
	app.UsageWriter(stdout)
	app.ErrorWriter(stderr)

	terminate := false
	app.Terminate(func(int) {
		terminate = true
	})

	verboseFlag := app.Flag("verbose", "").Short('v').Bool()
	timeoutFlag := app.Flag("timeout", "").Short('T').Default(strconv.Itoa(env.GetInt("RDAP_TIMEOUT", 30))).Uint16()
	insecureFlag := app.Flag("insecure", "").Short('k').Bool()

	queryType := app.Flag("type", "").Short('t').String()
	serverFlag := app.Flag("server", "").Short('s').String()

	textFlag := app.Flag("text", "").Bool()
	jsonFlag := app.Flag("json", "").Short('j').Bool()
	compactFlag := app.Flag("compact", "").Short('J').Bool()
	rawFlag := app.Flag("raw", "").Short('r').Bool()
	jsContactFlag := app.Flag("to-jscontact", "").Default(env.Get("RDAP_SRV_JSCONTACT_CONVERSION", "none")).String()

	checkFlag := app.Flag("check", "").Bool()
	classFlags := app.Flag("class", "").Strings()
	errorOnChecksFlag := app.Flag("error-on-checks", "").Bool()
	profileGroupFlag := app.Flag("profile-group", "").Default(env.Get("RDAP_PROFILE_GROUP", "")).String()
	requiredExtFlags := app.Flag("required-extension", "").Strings()
	registeredExtFlags := app.Flag("registered-extension", "").Strings()
	allowUnregisteredFlag := app.Flag("allow-unregistered-extensions", "").Bool()

	linkTargetFlags := app.Flag("link-target", "").Strings()
	linkMinDepthFlag := app.Flag("link-min-depth", "").Default("0").Int()
	linkMaxDepthFlag := app.Flag("link-max-depth", "").Default("10").Int()
	linkOnlyLastFlag := app.Flag("link-only-last", "").Bool()

	cacheDirFlag := app.Flag("cache-dir", "").Default("default").String()
	bootstrapURLFlag := app.Flag("bs-url", "").Default("default").String()
	bootstrapTimeoutFlag := app.Flag("bs-ttl", "").Default("3600").Uint32()

	queryArgs := app.Arg("", "").Strings()

	_, err = app.Parse(args)
	if err != nil {
		printError(stderr, fmt.Sprintf("Error: %s\n\n%s", err, usageText))
		return 200
	} else if terminate {
		return 1
	}

	var verbose func(text string)
	if *verboseFlag {
		verbose = func(text string) {
			fmt.Fprintf(stderr, "# %s\n", text)
		}
	} else {
		verbose = func(text string) {}
	}

	verbose(version)
	verbose("")
	verbose("rdap: Configuring query...")

	if *queryType != "help" && len(*queryArgs) == 0 {
		printError(stderr, fmt.Sprintf("Error: %s\n\n%s", "Query object required, e.g. rdap example.cz", usageText))
		return 200
	}

	queryText := ""
	if len(*queryArgs) > 0 {
		queryText = (*queryArgs)[0]
	}

	req, err := requestFor(*queryType, queryText)
	if err != nil {
		printError(stderr, err.Error())
		return 200
	}

	if req.Server != nil && *serverFlag != "" {
		printError(stderr, fmt.Sprintf("--server option cannot be used with query type %s", req.Type))
		return 200
	}

	if *serverFlag != "" {
		serverURL, err := url.Parse(*serverFlag)
		if err != nil {
			printError(stderr, fmt.Sprintf("--server error: %s", err))
			return 200
		}
		if serverURL.Scheme == "" {
			serverURL.Scheme = "http"
		}
		req = req.WithServer(serverURL)
		verbose(fmt.Sprintf("rdap: Using server '%s'", serverURL))
	}

	bs := bootstrap.NewClient()

	if *cacheDirFlag == "" {
		bs.Cache = cache.NewMemoryCache()
		verbose("rdap: Using in-memory cache")
	} else {
		dc := cache.NewDiskCache()
		if *cacheDirFlag != "default" {
			if !options.Sandbox {
				dc.Dir = *cacheDirFlag
			} else {
				verbose("rdap: Ignored --cache-dir option (sandbox mode enabled)")
			}
		}

		verbose(fmt.Sprintf("rdap: Using disk cache (%s)", dc.Dir))

		if err := dc.InitDir(); err != nil {
			printError(stderr, fmt.Sprintf("rdap: Error making cache dir %s: %s", dc.Dir, err))
			return 40
		}

		bs.Cache = dc
	}

	bootstrapURL := *bootstrapURLFlag
	if bootstrapURL == "default" {
		bootstrapURL = env.Get("RDAP_BASE_URL", "default")
	}
	if bootstrapURL != "default" {
		baseURL, err := url.Parse(bootstrapURL)
		if err != nil {
			printError(stderr, fmt.Sprintf("Bootstrap URL error: %s", err))
			return 200
		}
		bs.BaseURL = baseURL
		verbose(fmt.Sprintf("rdap: Bootstrap URL set to '%s'", baseURL))
	} else {
		verbose(fmt.Sprintf("rdap: Bootstrap URL is default '%s'", bootstrap.DefaultBaseURL))
	}

	if bootstrapTimeoutFlag != nil {
		bs.Cache.SetTimeout(time.Duration(*bootstrapTimeoutFlag) * time.Second)
		verbose(fmt.Sprintf("rdap: Bootstrap cache TTL set to %d seconds", *bootstrapTimeoutFlag))
	}

	httpClient := &http.Client{
		Transport: &http.Transport{
			TLSClientConfig: &tls.Config{InsecureSkipVerify: *insecureFlag},
		},
	}

	client := &Client{
		HTTP:      httpClient,
		Bootstrap: bs,
		Verbose:   verbose,
	}

	if *insecureFlag {
		verbose("rdap: SSL certificate validation disabled")
	}

	ctx, cancelFunc := context.WithTimeout(context.Background(), time.Duration(*timeoutFlag)*time.Second)
	defer cancelFunc()
	req = req.WithContext(ctx)

	if len(*linkTargetFlags) > 0 {
		req.LinkTarget = resolver.LinkTargetPolicy{
			Targets:         *linkTargetFlags,
			MinDepth:        *linkMinDepthFlag,
			MaxDepth:        *linkMaxDepthFlag,
			OnlyShowTargets: *linkOnlyLastFlag,
		}
	}

	verbose(fmt.Sprintf("rdap: Timeout is %d seconds", *timeoutFlag))

	resp, err := client.Do(req)

	verbose("")
	verbose(fmt.Sprintf("rdap: Finished in %s", time.Since(start)))

	if err != nil {
		printError(stderr, fmt.Sprintf("Error: %s", err))
		return exitCodeFor(err)
	}

	if *verboseFlag {
		fmt.Fprintln(stderr, "")
	}

	mode := jcard.ParseConversionMode(*jsContactFlag)
	converted := ApplyJSContact(resp.Response, mode)

	body := lastBody(resp)
	if mode != jcard.ConversionNone {
		if b, err := Serialize(converted); err == nil {
			body = b
		}
	}

	outputMode := "text"
	switch {
	case *rawFlag:
		outputMode = "raw"
	case *jsonFlag:
		outputMode = "json"
	case *compactFlag:
		outputMode = "compact"
	case *textFlag:
		outputMode = "text"
	default:
		outputMode = env.Get("RDAP_OUTPUT", "text")
	}

	switch outputMode {
	case "raw":
		fmt.Fprintln(stdout, string(body))
	case "json":
		var buf bytes.Buffer
		if err := json.Indent(&buf, body, "", "  "); err != nil {
			fmt.Fprintln(stdout, string(body))
		} else {
			fmt.Fprintln(stdout, buf.String())
		}
	case "compact":
		var buf bytes.Buffer
		if err := json.Compact(&buf, body); err != nil {
			fmt.Fprintln(stdout, string(body))
		} else {
			fmt.Fprintln(stdout, buf.String())
		}
	default:
		printer := &Printer{Writer: stdout, BriefLinks: true}
		printer.Print(converted)
	}

	if *checkFlag || len(*classFlags) > 0 || *errorOnChecksFlag {
		checkCtx := buildCheckContext(env, *profileGroupFlag, *requiredExtFlags, *registeredExtFlags, *allowUnregisteredFlag)
		tree := check.Check(resp.Response, checkCtx)
		if *linkMinDepthFlag > 0 {
			// The initial response is hop depth 0.
			tree.Findings = nil
		}

		for _, hop := range resp.LinkHops {
			if hop.Depth < *linkMinDepthFlag {
				continue
			}
			for _, f := range check.Check(hop.Response, checkCtx).Findings {
				f.Path = fmt.Sprintf("$.linkTarget[%s]%s", hop.Rel, f.Path)
				tree.Findings = append(tree.Findings, f)
			}
		}
		for _, w := range resp.LinkWarnings {
			tree.Findings = append(tree.Findings, check.Finding{
				Class:   check.StandardsWarning,
				Code:    w.Code,
				Message: w.Message,
				Path:    "$.links",
			})
		}

		classes := classesFor(*classFlags)
		for _, f := range tree.Filter(classes...) {
			fmt.Fprintf(stdout, "[%s] %s: %s (%s)\n", f.Class, f.Code, f.Message, f.Path)
		}
		if *errorOnChecksFlag && tree.HasAny(classes...) {
			return 250
		}
	}

	return 0
}

func requestFor(queryType, queryText string) (*Request, error) {
	switch queryType {
	case "":
		return NewAutoRequest(queryText), nil
	case "help":
		return NewHelpRequest(), nil
	case "domain", "dns":
		return NewDomainRequest(queryText), nil
	case "autnum", "as", "asn":
		autnum := strings.ToUpper(queryText)
		autnum = strings.TrimPrefix(autnum, "AS")
		result, err := strconv.ParseUint(autnum, 10, 32)
		if err != nil {
			return nil, fmt.Errorf("Invalid ASN '%s'", queryText)
		}
		return NewAutnumRequest(uint32(result)), nil
	case "ip":
		ip := net.ParseIP(queryText)
		if ip == nil {
			return nil, fmt.Errorf("Invalid IP '%s'", queryText)
		}
		return NewIPRequest(ip), nil
	case "nameserver", "ns":
		return NewNameserverRequest(queryText), nil
	case "entity":
		return NewEntityRequest(queryText), nil
	case "url":
		fullURL, err := url.Parse(queryText)
		if err != nil {
			return nil, fmt.Errorf("Unable to parse URL '%s': %s", queryText, err)
		}
		return NewRawRequest(fullURL), nil
	case "entity-search":
		return NewRequest(EntitySearchRequest, queryText), nil
	case "entity-search-by-handle":
		return NewRequest(EntitySearchByHandleRequest, queryText), nil
	case "domain-search":
		return NewRequest(DomainSearchRequest, queryText), nil
	case "domain-search-by-nameserver":
		return NewRequest(DomainSearchByNameserverRequest, queryText), nil
	case "domain-search-by-nameserver-ip":
		return NewRequest(DomainSearchByNameserverIPRequest, queryText), nil
	case "nameserver-search":
		return NewRequest(NameserverSearchRequest, queryText), nil
	case "nameserver-search-by-ip":
		return NewRequest(NameserverSearchByNameserverIPRequest, queryText), nil
	default:
		return nil, fmt.Errorf("Unknown query type '%s'", queryType)
	}
}

// buildCheckContext assembles a *check.Context from CLI flags, falling back
// to the rdap.env/process environment for fields with no dedicated flag
// (RDAP_REDACTION_FLAGS, per spec.md §6).
func buildCheckContext(env *rdapenv.Env, profileGroup string, requiredExt, registeredExt []string, allowUnregistered bool) *check.Context {
	ctx := &check.Context{
		ProfileGroup:                profileGroup,
		RequiredExtensions:          requiredExt,
		RegisteredExtensions:        registeredExt,
		AllowUnregisteredExtensions: allowUnregistered,
	}

	for _, flag := range strings.Split(env.Get("RDAP_REDACTION_FLAGS", ""), ",") {
		switch strings.TrimSpace(flag) {
		case "highlight-simple":
			ctx.Redaction.HighlightSimple = true
		case "show-rfc9537":
			ctx.Redaction.ShowRFC9537 = true
		case "do-not-simplify":
			ctx.Redaction.DoNotSimplify = true
		case "do-redactions":
			ctx.Redaction.DoRedactions = true
		}
	}

	return ctx
}

func classesFor(names []string) []check.Class {
	if len(names) == 0 {
		return []check.Class{
			check.Informational, check.SpecificationNote, check.StandardsWarning,
			check.StandardsError, check.Cidr0Error, check.IcannExtensionError,
		}
	}

	var out []check.Class
	for _, n := range names {
		switch n {
		case "informational":
			out = append(out, check.Informational)
		case "specification-note":
			out = append(out, check.SpecificationNote)
		case "standards-warning":
			out = append(out, check.StandardsWarning)
		case "standards-error":
			out = append(out, check.StandardsError)
		case "cidr0-error":
			out = append(out, check.Cidr0Error)
		case "icann-extension-error":
			out = append(out, check.IcannExtensionError)
		}
	}
	return out
}

// lastBody returns the raw response body behind resp.Response, for
// --raw/--json/--compact output: the first attempt that decoded when the
// initial response is shown after link hops, else the last attempt with a
// body.
func lastBody(resp *Response) []byte {
	if n := len(resp.LinkHops); n > 0 && resp.Response != resp.LinkHops[n-1].Response {
		for _, a := range resp.Attempts {
			if a.Result != nil {
				if _, err := NewDecoder(a.Result.Body).Decode(); err == nil {
					return a.Result.Body
				}
			}
		}
	}
	for i := len(resp.Attempts) - 1; i >= 0; i-- {
		if a := resp.Attempts[i]; a.Result != nil {
			return a.Result.Body
		}
	}
	return nil
}

func exitCodeFor(err error) int {
	var ce *ClientError
	if clientErr, ok := err.(*ClientError); ok {
		ce = clientErr
	}
	if ce == nil {
		return 60
	}

	switch ce.Type {
	case ObjectDoesNotExist:
		return 100
	case BootstrapNotSupported, NoBootstrapMatch:
		return 70
	case ServersExhausted:
		return 71
	case WrongResponseType, MalformedResponse:
		return 101
	default:
		return 42
	}
}

func defaultEnvFilePath() string {
	home, err := homedir.Dir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".openrdap", "rdap.env")
}

func printError(stderr io.Writer, text string) {
	fmt.Fprintf(stderr, "# %s\n", text)
}
