package loader

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/qmuntal/gltf"
	"go.uber.org/zap"
)

// walkItem is one pending node together with the transform it inherits.
type walkItem struct {
	node   int
	parent mgl32.Mat4
}

// walkScene visits the nodes of the default scene depth-first, children in
// declaration order, and extracts every mesh it reaches with the node's world
// transform. Each root starts from identity. A node reached a second time, through
// a cycle or a shared child, is skipped with a warning.
//
// Parameters:
//   - ctx: the load context receiving the draw objects
//
// Returns:
//   - error: the first extraction error, which aborts the walk
func walkScene(ctx *loadContext) error {
	roots := sceneRoots(ctx.doc)
	visited := make([]bool, len(ctx.doc.Nodes))

	stack := make([]walkItem, 0, len(roots))
	for i := len(roots) - 1; i >= 0; i-- {
		stack = append(stack, walkItem{node: roots[i], parent: mgl32.Ident4()})
	}

	for len(stack) > 0 {
		item := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if item.node < 0 || item.node >= len(ctx.doc.Nodes) {
			ctx.log.Warn("node index out of range", zap.Int("node", item.node))
			continue
		}
		if visited[item.node] {
			ctx.log.Warn("node already visited, skipping", zap.Int("node", item.node))
			continue
		}
		visited[item.node] = true

		node := ctx.doc.Nodes[item.node]
		world := item.parent.Mul4(localTransform(node))

		if node.Camera != nil {
			ctx.soft("ignoring camera", zap.Int("node", item.node), zap.Int("camera", *node.Camera))
		}
		if node.Mesh != nil {
			if err := extractMesh(ctx, *node.Mesh, node.Name, world); err != nil {
				return fmt.Errorf("node %d: %w", item.node, err)
			}
		}

		for i := len(node.Children) - 1; i >= 0; i-- {
			stack = append(stack, walkItem{node: node.Children[i], parent: world})
		}
	}
	return nil
}

// sceneRoots returns the root nodes of the default scene, falling back to the
// first scene and then to every node that is nobody's child.
func sceneRoots(doc *gltf.Document) []int {
	if doc.Scene != nil && *doc.Scene >= 0 && *doc.Scene < len(doc.Scenes) {
		return doc.Scenes[*doc.Scene].Nodes
	}
	if len(doc.Scenes) > 0 {
		return doc.Scenes[0].Nodes
	}

	isChild := make([]bool, len(doc.Nodes))
	for _, n := range doc.Nodes {
		for _, c := range n.Children {
			if c >= 0 && c < len(isChild) {
				isChild[c] = true
			}
		}
	}
	var roots []int
	for i, child := range isChild {
		if !child {
			roots = append(roots, i)
		}
	}
	return roots
}

// localTransform builds the node's own transform. A non-identity matrix is used as
// is; otherwise rotation, scale and translation compose in that order. Zero-valued
// matrix, rotation and scale fields resolve to their glTF defaults.
func localTransform(n *gltf.Node) mgl32.Mat4 {
	if matrix := n.MatrixOrDefault(); matrix != gltf.DefaultMatrix {
		var m mgl32.Mat4
		for i, v := range matrix {
			m[i] = float32(v)
		}
		return m
	}

	local := mgl32.Ident4()
	if r := n.RotationOrDefault(); r != gltf.DefaultRotation {
		q := mgl32.Quat{W: float32(r[3]), V: mgl32.Vec3{float32(r[0]), float32(r[1]), float32(r[2])}}
		local = local.Mul4(q.Normalize().Mat4())
	}
	if s := n.ScaleOrDefault(); s != gltf.DefaultScale {
		local = local.Mul4(mgl32.Scale3D(float32(s[0]), float32(s[1]), float32(s[2])))
	}
	if t := n.TranslationOrDefault(); t != [3]float64{} {
		local = local.Mul4(mgl32.Translate3D(float32(t[0]), float32(t[1]), float32(t[2])))
	}
	return local
}
