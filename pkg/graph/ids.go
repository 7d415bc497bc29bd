package graph

// Node id construction. Default mode uses the raw label as id, which is
// what the interactive viewer historically keyed on; it is collision-prone
// across types and roots. Stable mode prefixes ids with the node kind so
// two nodes never collide:
//
//	project:<root>#<label>
//	target:<container-id>#<label>
//	localPackage:<lowercase-identity>
//	externalPackage:<lowercase-identity>

// ProjectNodeID returns the id for a project or local-package root node.
func ProjectNodeID(stable bool, root, label string) string {
	if stable {
		return "project:" + root + "#" + label
	}
	return label
}

// TargetNodeID returns the id for a build-target node inside a container.
func TargetNodeID(stable bool, containerID, name string) string {
	if stable {
		return "target:" + containerID + "#" + name
	}
	return name
}

// PackageNodeID returns the id for a package dependency node.
func PackageNodeID(stable, internal bool, canonical, label string) string {
	if stable {
		if internal {
			return "localPackage:" + canonical
		}
		return "externalPackage:" + canonical
	}
	return label
}
