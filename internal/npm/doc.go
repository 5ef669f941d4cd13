// Package npm renders the three generated artifacts of a platform package:
// the package.json descriptor, the Node launcher stub that execs the
// relocated compiler binary, and the readme.
//
// Rendering is pure field interpolation; two runs with the same inputs
// produce byte-identical output.
package npm
