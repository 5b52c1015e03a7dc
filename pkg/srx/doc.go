/*
Package srx reads, writes and safety-checks the memory of ST SRx contactless
tags (SRIX4K and SRI512).

The package is layered:
  - Transceiver: one "send frame, receive answer" round trip. Connection
    (PC/SC, PN53x readers) and Emulator (in-memory tag) implement it.
  - Command layer: INITIATE, SELECT, GET_UID, READ_BLOCK, WRITE_BLOCK.
  - Dump: the 1024-byte image of a tag and its two geometries.
  - Session: full-tag Read, compare-before-write Write, Verify and DryRun.
  - Analyze: the dry-run hazard analysis.

# Memory Map

Every dump covers 256 blocks of 4 bytes, whatever the geometry:

	Geometry  EEPROM       Padding      System
	SRIX4K    0x00-0x7F    0x80-0xFE    0xFF
	SRI512    0x00-0x0F    0x10-0xFE    0xFF

Padding blocks do not exist on the tag. They are filled with 0xFF on read so an
SRI512 dump written onto an SRIX4K never clears a bit by accident.

Special blocks:

	0x00-0x04  resettable OTP: bits only go 1 -> 0, except after an auto-erase
	0x05-0x06  32-bit counters
	0xFF       system block

# System Block

Read as a big-endian 32-bit value:

	bits 31-24: OTP lock bits. A 0 bit write-protects block (bit - 16) for
	            good; bit 24 also protects block 0x07.
	bits 23-8:  ST reserved, effect of a change undocumented
	bits 7-0:   chip ID, 0xFF unless set by the user

# Auto-Erase

Writing counter block 0x06 with a value whose 11 most significant bits differ
from the stored value reloads the counter and erases blocks 0x00-0x04 back to
all ones. Analyze flags such a write and then reports every differing OTP
block as an auto-erase change instead of a bit-clearing update.

# Commands

	INITIATE     06 00                  -> chip ID
	SELECT       0E <chip ID>           -> chip ID
	GET_UID      0B                     -> 8-byte UID
	READ_BLOCK   08 <addr>              -> 4 bytes
	WRITE_BLOCK  09 <addr> <4 bytes>    -> no answer

A failed or empty round trip is a *TransceiveError. Nothing in this package
retries.
*/
package srx
