/*
Package ecdsa implements recoverable secp256k1 ECDSA signatures over 32-byte
content hashes.

Signatures are canonical: Sign always produces s <= n/2, and Verify and Recover
reject any s above n/2. The complement (r, n-s, v^1) of a valid signature is
therefore never accepted as a second encoding of the same signature.

The serialized form is r (32 bytes) ‖ s (32 bytes) ‖ v (1 byte), rendered as
0x-prefixed hex in JSON.
*/
package ecdsa
