/*
Package gearcut finds content defined chunk boundaries
with a 64-bit gear rolling hash,

	h = h<<1 + table[b]

cutting after any byte where h&mask == 0.

Three engines compute the same recurrence. ReferenceEngine
takes one byte per step. PairedEngine takes two, using a
companion table holding table[i]<<1. QuadEngine takes four,
with the hashes after the second and fourth byte computed
independently of the ones before them. All three leave
identical hash state and report identical boundaries, so
they can be swapped freely, even in the middle of a stream.

SelectEngine picks the widest engine the CPU favors; the
GEARCUT_ENGINE environment variable (ref, paired, quad)
overrides it.

Chunker drives an Engine over an io.Reader with min, target
and max chunk sizes, and tags each chunk with its blake3
digest. Package store keeps those chunks, compressed and
deduplicated, on disk.
*/
package gearcut
