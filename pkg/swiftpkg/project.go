package swiftpkg

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/timsearle/swift-dependency-graph/pkg/facts"
	"github.com/timsearle/swift-dependency-graph/pkg/identity"
)

// The pbxproj format is an annotated plist. Entries are keyed by hex ids
// and every id reference carries a /* name */ comment, so the structure we
// need falls out of section slicing plus a few expressions.
var (
	sectionRe = regexp.MustCompile(`(?s)/\* Begin (\w+) section \*/(.*?)/\* End \w+ section \*/`)
	entryRe   = regexp.MustCompile(`(?s)([A-F0-9]{24}) /\* (.*?) \*/ = \{(.*?)\};`)

	repoURLRe      = regexp.MustCompile(`repositoryURL\s*=\s*"([^"]+)"`)
	relativePathRe = regexp.MustCompile(`relativePath\s*=\s*"?([^";\n]+)"?;`)
	nameRe         = regexp.MustCompile(`\bname\s*=\s*"?([^";\n]+)"?;`)
	productNameRe  = regexp.MustCompile(`productName\s*=\s*"?([^";\n]+)"?;`)
	targetRefRe    = regexp.MustCompile(`\btarget\s*=\s*[A-F0-9]{24} /\* (.*?) \*/`)
	refListRe      = regexp.MustCompile(`[A-F0-9]{24} /\* (.*?) \*/`)

	productDepsRe = regexp.MustCompile(`(?s)packageProductDependencies\s*=\s*\((.*?)\)`)
	targetDepsRe  = regexp.MustCompile(`(?s)\bdependencies\s*=\s*\((.*?)\)`)
)

// ParseProject parses a project.pbxproj file into a record carrying the
// explicitly declared package identities and the native-target structure.
func ParseProject(path string) (*facts.Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	text := string(data)
	if !strings.Contains(text, "objects") {
		return nil, fmt.Errorf("parse %s: not a pbxproj file", path)
	}

	sections := map[string]string{}
	for _, m := range sectionRe.FindAllStringSubmatch(text, -1) {
		sections[m[1]] = m[2]
	}

	explicit := map[string]bool{}
	for _, m := range repoURLRe.FindAllStringSubmatch(sections["XCRemoteSwiftPackageReference"], -1) {
		explicit[identity.Canonical(m[1])] = true
	}
	for _, m := range relativePathRe.FindAllStringSubmatch(sections["XCLocalSwiftPackageReference"], -1) {
		explicit[identity.Canonical(m[1])] = true
	}

	// productName on an XCSwiftPackageProductDependency is the library
	// product, which usually matches the package identity for single-product
	// packages and is the only linkable name the project records.
	products := map[string]string{}
	for _, m := range entryRe.FindAllStringSubmatch(sections["XCSwiftPackageProductDependency"], -1) {
		if pm := productNameRe.FindStringSubmatch(m[3]); pm != nil {
			products[m[1]] = identity.Canonical(pm[1])
		}
	}

	// PBXTargetDependency ids resolve to the depended-on target's name via
	// the comment on its target reference.
	targetDeps := map[string]string{}
	for _, m := range entryRe.FindAllStringSubmatch(sections["PBXTargetDependency"], -1) {
		if tm := targetRefRe.FindStringSubmatch(m[3]); tm != nil {
			targetDeps[m[1]] = tm[1]
		}
	}

	var targets []facts.Target
	for _, m := range entryRe.FindAllStringSubmatch(sections["PBXNativeTarget"], -1) {
		body := m[3]
		target := facts.Target{Name: m[2]}
		if nm := nameRe.FindStringSubmatch(body); nm != nil {
			target.Name = nm[1]
		}

		if pd := productDepsRe.FindStringSubmatch(body); pd != nil {
			for _, ref := range refListRe.FindAllStringSubmatch(pd[1], -1) {
				id := identity.Canonical(ref[1])
				if mapped, ok := products[ref[0][:24]]; ok {
					id = mapped
				}
				target.ProductDeps = append(target.ProductDeps, id)
				explicit[id] = true
			}
		}
		if td := targetDepsRe.FindStringSubmatch(body); td != nil {
			for _, ref := range refListRe.FindAllString(td[1], -1) {
				depID := ref[:24]
				if name, ok := targetDeps[depID]; ok {
					target.TargetDeps = append(target.TargetDeps, name)
				}
			}
		}
		targets = append(targets, target)
	}

	display := strings.TrimSuffix(filepath.Base(filepath.Dir(path)), ".xcodeproj")
	return &facts.Record{
		Name:     identity.Canonical(display),
		Display:  display,
		Root:     filepath.Dir(filepath.Dir(path)),
		Explicit: explicit,
		Targets:  targets,
	}, nil
}
