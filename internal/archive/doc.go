// Package archive owns the on-disk side of a backup run: the transient
// workspace, the tar bundling of the staging tree, and the symmetric
// encryption of the bundled archive.
//
// Encryption is NaCl secretbox keyed by an scrypt-stretched passcode. The
// artifact layout after a successful run is:
//
//	<workspace>/archive.tar.kst   authenticated ciphertext (mode 0700)
//	<workspace>/decrypt.sh        companion restore script (mode 0700)
//
// Cleartext (the staging tree and the intermediate tar) is deleted the
// moment the ciphertext is written; it never outlives the encryption step.
package archive
