/*
 * doc.go, part of goequil.
 *
 * Copyright 2023 Raul Mera <rauldotmeraatusachdotcl>
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License as
 * published by the Free Software Foundation; either version 2.1 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General
 * Public License along with this program.  If not, see
 * <http://www.gnu.org/licenses/>.
 *
 */

//Package titrate runs titration sweeps over goequil systems: a series of
//solves of one system where only the right-hand side of one constraint (the
//titrant total) changes between steps, each step warm-started from the
//previous solution. It also reads and writes sweep archives, a small
//zstd-compressed text format holding the concentration of every species at
//every step.
//
//Archive format: plain ASCII, compressed with z-standard (zstd). The
//first line is "goequil sweep 1". The second line holds the space-separated
//species names (names therefore must not contain spaces). Each step then
//occupies one line: the constraint right-hand side followed by the
//concentration of each species, in the order of the names line, all in
//scientific notation. A reader/writer is trivial to implement anywhere zstd
//is available, which is the point.
package titrate
